package token

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	EOF Kind = iota
	Unknown

	Ident
	IntLit
	FloatLit
	StringLit
	CharLit

	// punctuation and operators
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	Colon
	Question
	QuestionDot
	QuestionQuestion
	Assign
	EqEq
	Bang
	BangEq
	Lt
	LtEq
	Gt
	GtEq
	Plus
	PlusAssign
	Minus
	MinusAssign
	Star
	Slash
	Percent
	Amp
	AmpAmp
	Pipe
	PipePipe
	Arrow

	// keywords
	KwUsing
	KwNamespace
	KwClass
	KwPublic
	KwPrivate
	KwProtected
	KwInternal
	KwStatic
	KwSealed
	KwReadonly
	KwOverride
	KwPartial
	KwAsync
	KwVoid
	KwVar
	KwNew
	KwIf
	KwElse
	KwReturn
	KwThrow
	KwAwait
	KwTrue
	KwFalse
	KwNull
	KwTypeof
	KwThis
	KwBase
)

var kindNames = map[Kind]string{
	EOF:              "EOF",
	Unknown:          "Unknown",
	Ident:            "Ident",
	IntLit:           "IntLit",
	FloatLit:         "FloatLit",
	StringLit:        "StringLit",
	CharLit:          "CharLit",
	LParen:           "LParen",
	RParen:           "RParen",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
	Semicolon:        "Semicolon",
	Comma:            "Comma",
	Dot:              "Dot",
	Colon:            "Colon",
	Question:         "Question",
	QuestionDot:      "QuestionDot",
	QuestionQuestion: "QuestionQuestion",
	Assign:           "Assign",
	EqEq:             "EqEq",
	Bang:             "Bang",
	BangEq:           "BangEq",
	Lt:               "Lt",
	LtEq:             "LtEq",
	Gt:               "Gt",
	GtEq:             "GtEq",
	Plus:             "Plus",
	PlusAssign:       "PlusAssign",
	Minus:            "Minus",
	MinusAssign:      "MinusAssign",
	Star:             "Star",
	Slash:            "Slash",
	Percent:          "Percent",
	Amp:              "Amp",
	AmpAmp:           "AmpAmp",
	Pipe:             "Pipe",
	PipePipe:         "PipePipe",
	Arrow:            "Arrow",
	KwUsing:          "using",
	KwNamespace:      "namespace",
	KwClass:          "class",
	KwPublic:         "public",
	KwPrivate:        "private",
	KwProtected:      "protected",
	KwInternal:       "internal",
	KwStatic:         "static",
	KwSealed:         "sealed",
	KwReadonly:       "readonly",
	KwOverride:       "override",
	KwPartial:        "partial",
	KwAsync:          "async",
	KwVoid:           "void",
	KwVar:            "var",
	KwNew:            "new",
	KwIf:             "if",
	KwElse:           "else",
	KwReturn:         "return",
	KwThrow:          "throw",
	KwAwait:          "await",
	KwTrue:           "true",
	KwFalse:          "false",
	KwNull:           "null",
	KwTypeof:         "typeof",
	KwThis:           "this",
	KwBase:           "base",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Invalid"
}
