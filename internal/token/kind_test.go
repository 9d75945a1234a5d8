package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		word string
		want Kind
	}{
		{"using", KwUsing},
		{"class", KwClass},
		{"async", KwAsync},
		{"await", KwAwait},
		{"void", KwVoid},
		{"Await", Ident},
		{"handler", Ident},
		{"", Ident},
	}
	for _, tt := range tests {
		if got := LookupKeyword(tt.word); got != tt.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if EOF.String() != "EOF" {
		t.Errorf("EOF.String() = %q", EOF.String())
	}
	if KwAsync.String() != "async" {
		t.Errorf("KwAsync.String() = %q", KwAsync.String())
	}
	if Kind(250).String() != "Invalid" {
		t.Errorf("invalid kind String() = %q", Kind(250).String())
	}
}

func TestTokenClassification(t *testing.T) {
	if !(Token{Kind: KwNull}).IsLiteral() {
		t.Error("null must classify as a literal")
	}
	if (Token{Kind: Ident}).IsLiteral() {
		t.Error("identifier must not classify as a literal")
	}
	if !(Token{Kind: KwAsync}).IsModifier() {
		t.Error("async must classify as a modifier")
	}
	if !(Token{Kind: KwUsing}).IsKeyword() {
		t.Error("using must classify as a keyword")
	}
	if (Token{Kind: Semicolon}).IsKeyword() {
		t.Error("semicolon must not classify as a keyword")
	}
}
