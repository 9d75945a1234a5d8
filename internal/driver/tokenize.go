package driver

import (
	"extlint/internal/diag"
	"extlint/internal/lexer"
	"extlint/internal/source"
	"extlint/internal/token"
)

// TokenizeResult carries the token stream of one file together with any
// lexical diagnostics.
type TokenizeResult struct {
	FileSet *source.FileSet
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize scans a single file. Lexical errors land in the bag; only I/O
// failures are returned as an error.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = defaultBagCap
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokens(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{FileSet: fs, Tokens: tokens, Bag: bag}, nil
}
