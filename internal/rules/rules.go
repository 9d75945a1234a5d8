// Package rules defines the analysis rule model and the built-in taxonomy.
//
// A rule is a pure predicate over one tree node plus its read-only context.
// Matchers use the local subtree and flow-insensitive dominance (preceding
// siblings and ancestors in the same block); a symbol the table does not
// know never matches, so unknown code produces no findings.
package rules

import (
	"fmt"
	"strings"

	"extlint/internal/ast"
	"extlint/internal/diag"
	"extlint/internal/source"
	"extlint/internal/symbols"
)

// Category buckets rules for enable-set filtering. Filtering is exact: a
// category name that does not match one of these is a configuration error.
type Category uint8

const (
	CatPerformance Category = iota
	CatReliability
	CatThreading
	CatDesign
	CatTheming
	categoryCount
)

var categoryNames = [...]string{
	CatPerformance: "performance",
	CatReliability: "reliability",
	CatThreading:   "threading",
	CatDesign:      "design",
	CatTheming:     "theming",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "invalid"
}

// ParseCategory maps a config spelling to a category, case-insensitively.
func ParseCategory(name string) (Category, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == lowered {
			return Category(i), nil // #nosec G115
		}
	}
	return 0, fmt.Errorf("unknown rule category %q", name)
}

// CategorySet is an enable-set of categories.
type CategorySet uint8

// AllCategories enables every category.
const AllCategories = CategorySet(1<<categoryCount - 1)

// ParseCategorySet builds a set from config spellings. An empty list means
// everything is enabled.
func ParseCategorySet(names []string) (CategorySet, error) {
	if len(names) == 0 {
		return AllCategories, nil
	}
	var set CategorySet
	for _, name := range names {
		cat, err := ParseCategory(name)
		if err != nil {
			return 0, err
		}
		set |= 1 << cat
	}
	return set, nil
}

// Has reports whether the category is enabled.
func (s CategorySet) Has(c Category) bool {
	return s&(1<<c) != 0
}

// Names lists the enabled categories in declaration order.
func (s CategorySet) Names() []string {
	var out []string
	for i := Category(0); i < categoryCount; i++ {
		if s.Has(i) {
			out = append(out, i.String())
		}
	}
	return out
}

// Context is the per-file read-only environment matchers run in.
type Context struct {
	File  *source.File
	Table *symbols.Table
}

// Text returns the source text under a span.
func (ctx *Context) Text(sp source.Span) string {
	if ctx.File == nil || sp.Start > sp.End || sp.End > uint32(len(ctx.File.Content)) { // #nosec G115
		return ""
	}
	return string(ctx.File.Content[sp.Start:sp.End])
}

// Finding is one raw match. The engine stamps the owning rule's code and
// severity onto it when assembling the diagnostic.
type Finding struct {
	Span    source.Span
	Message string
	Notes   []diag.Note
	Fixes   []diag.Fix
}

// MatchFunc tests one node. Returning nil means no finding.
type MatchFunc func(ctx *Context, n *ast.Node) []Finding

// Rule is one member of the taxonomy. The string identifier comes from the
// diagnostic code and never changes once published.
type Rule struct {
	Code     diag.Code
	Category Category
	Severity diag.Severity
	Doc      string
	Match    MatchFunc
}

// ID returns the rule's stable string identifier.
func (r Rule) ID() string {
	return r.Code.ID()
}
