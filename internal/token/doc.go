// Package token defines the lexical vocabulary of the analyzed extension
// sources: token kinds, tokens with byte spans, and trivia (whitespace and
// comments) carried alongside tokens so that automated fixes can reproduce
// the surrounding formatting byte-for-byte.
package token
