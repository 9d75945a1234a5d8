package diag

import (
	"fmt"
)

// Code is a compact numeric diagnostic identifier with a stable string form.
type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// syntactic
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectSemicolon   Code = 2003
	SynExpectIdentifier  Code = 2004
	SynExpectTypeName    Code = 2005
	SynImplicitClose     Code = 2006
	SynUnclosedAttribute Code = 2007
	SynExpectExpression  Code = 2008

	// analysis rules
	RuleInfo                     Code = 3000
	RuleBlockingWaitOnUIThread   Code = 3001
	RuleUnobservedAsyncResult    Code = 3002
	RuleAsyncVoidEntry           Code = 3003
	RuleUncheckedServiceLookup   Code = 3004
	RuleHardcodedVisualResource  Code = 3005
	RuleSyncSleepInAsync         Code = 3006
	RuleUnexportedCommandHandler Code = 3007

	// IO and batch-level conditions
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
)

// ruleIDs are the stable string identifiers of the analysis rules. They never
// change once published; downstream tooling keys suppressions on them.
var ruleIDs = map[Code]string{
	RuleBlockingWaitOnUIThread:   "blocking-call-on-affinity-thread",
	RuleUnobservedAsyncResult:    "unobserved-async-result",
	RuleAsyncVoidEntry:           "async-void-entry",
	RuleUncheckedServiceLookup:   "unchecked-service-lookup",
	RuleHardcodedVisualResource:  "hardcoded-visual-resource",
	RuleSyncSleepInAsync:         "sync-sleep-in-async",
	RuleUnexportedCommandHandler: "unexported-command-handler",
}

// ID returns the stable string identifier of the code. Rule codes use their
// published kebab-case names; infrastructure codes use a prefixed number.
func (c Code) ID() string {
	if id, ok := ruleIDs[c]; ok {
		return id
	}
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RULE%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// IsRule reports whether the code belongs to the analysis rule block.
func (c Code) IsRule() bool {
	_, ok := ruleIDs[c]
	return ok
}

func (c Code) String() string {
	return c.ID()
}
