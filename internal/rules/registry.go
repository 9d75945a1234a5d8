package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// RuleLoadError reports a malformed rule set. It is raised before any file
// is analyzed; a process that sees it must not produce partial results.
type RuleLoadError struct {
	ID     string
	Reason string
}

func (e *RuleLoadError) Error() string {
	return fmt.Sprintf("rule %q: %s", e.ID, e.Reason)
}

// Registry holds the active rule set with unique ids.
type Registry struct {
	rules []Rule
	byID  map[string]int
}

// NewRegistry validates and indexes a rule set. Duplicate ids and rules
// without a matcher fail with *RuleLoadError.
func NewRegistry(ruleSet ...Rule) (*Registry, error) {
	reg := &Registry{
		rules: make([]Rule, 0, len(ruleSet)),
		byID:  make(map[string]int, len(ruleSet)),
	}
	for _, r := range ruleSet {
		id := r.ID()
		if !r.Code.IsRule() {
			return nil, &RuleLoadError{ID: id, Reason: "code is not in the rule block"}
		}
		if r.Match == nil {
			return nil, &RuleLoadError{ID: id, Reason: "missing matcher"}
		}
		if _, dup := reg.byID[id]; dup {
			return nil, &RuleLoadError{ID: id, Reason: "duplicate rule id"}
		}
		reg.byID[id] = len(reg.rules)
		reg.rules = append(reg.rules, r)
	}
	return reg, nil
}

// All returns the rules in registration order.
func (reg *Registry) All() []Rule {
	return reg.rules
}

// Lookup returns the rule with the given string id.
func (reg *Registry) Lookup(id string) (Rule, bool) {
	if i, ok := reg.byID[id]; ok {
		return reg.rules[i], true
	}
	return Rule{}, false
}

// Enabled returns the rules whose category is in the set, in registration
// order.
func (reg *Registry) Enabled(set CategorySet) []Rule {
	out := make([]Rule, 0, len(reg.rules))
	for _, r := range reg.rules {
		if set.Has(r.Category) {
			out = append(out, r)
		}
	}
	return out
}

// Fingerprint hashes the identity of the whole registry. See FingerprintOf.
func (reg *Registry) Fingerprint() string {
	return FingerprintOf(reg.rules)
}

// FingerprintOf hashes the identity of a rule set: ids, categories, and
// severities. Cached analysis results keyed on it go stale the moment the
// set changes shape, including when a category filter narrows it.
func FingerprintOf(ruleSet []Rule) string {
	lines := make([]string, 0, len(ruleSet))
	for _, r := range ruleSet {
		lines = append(lines, fmt.Sprintf("%s/%s/%s", r.ID(), r.Category, r.Severity))
	}
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:8])
}
