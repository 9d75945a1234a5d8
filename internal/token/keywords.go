package token

var keywords = map[string]Kind{
	"using":     KwUsing,
	"namespace": KwNamespace,
	"class":     KwClass,
	"public":    KwPublic,
	"private":   KwPrivate,
	"protected": KwProtected,
	"internal":  KwInternal,
	"static":    KwStatic,
	"sealed":    KwSealed,
	"readonly":  KwReadonly,
	"override":  KwOverride,
	"partial":   KwPartial,
	"async":     KwAsync,
	"void":      KwVoid,
	"var":       KwVar,
	"new":       KwNew,
	"if":        KwIf,
	"else":      KwElse,
	"return":    KwReturn,
	"throw":     KwThrow,
	"await":     KwAwait,
	"true":      KwTrue,
	"false":     KwFalse,
	"null":      KwNull,
	"typeof":    KwTypeof,
	"this":      KwThis,
	"base":      KwBase,
}

// LookupKeyword maps an identifier spelling to its keyword kind, when it is
// one. Everything else stays Ident.
func LookupKeyword(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}
	return Ident
}
