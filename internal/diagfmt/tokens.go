package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"extlint/internal/source"
	"extlint/internal/token"
)

// TokenRecord is the JSON shape of one token.
type TokenRecord struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

// TokensPretty writes one line per token with kind, text, and position.
func TokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if len(tok.Leading) > 0 {
			kinds := make([]string, 0, len(tok.Leading))
			for _, trivia := range tok.Leading {
				kinds = append(kinds, trivia.Kind.String())
			}
			fmt.Fprintf(w, " (leading: %s)", strings.Join(kinds, ", "))
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// TokensJSON writes the token stream as an indented JSON array.
func TokensJSON(w io.Writer, tokens []token.Token) error {
	out := make([]TokenRecord, 0, len(tokens))
	for _, tok := range tokens {
		rec := TokenRecord{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span,
		}
		for _, trivia := range tok.Leading {
			rec.Leading = append(rec.Leading, trivia.Kind.String())
		}
		out = append(out, rec)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
