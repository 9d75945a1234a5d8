// Package symbols resolves dotted names from analyzed source against a
// registry of framework APIs and annotates the tree with behavior tags.
package symbols

import (
	"fmt"
	"strings"
)

// Tag is a bitset of API behaviors. Rules key off tags, never off raw
// spellings, so alternate names for the same behavior stay in one place.
type Tag uint16

const (
	// AsyncEntryPoint marks a call that starts or continues asynchronous
	// work and yields a result that should be awaited or observed.
	AsyncEntryPoint Tag = 1 << iota
	// UiThreadSwitch marks an explicit switch to the shell's main thread.
	UiThreadSwitch
	// BlockingWait marks a synchronous join on asynchronous work.
	BlockingWait
	// ServiceLocator marks a host service lookup that may return null.
	ServiceLocator
	// ThemeToken marks a visual property backed by the host theme service.
	ThemeToken
	// MefExport marks a composition export attribute.
	MefExport
	// CommandHandler marks a command or event callback entry point.
	CommandHandler
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{AsyncEntryPoint, "AsyncEntryPoint"},
	{UiThreadSwitch, "UiThreadSwitch"},
	{BlockingWait, "BlockingWait"},
	{ServiceLocator, "ServiceLocator"},
	{ThemeToken, "ThemeToken"},
	{MefExport, "MefExport"},
	{CommandHandler, "CommandHandler"},
}

// ParseTag maps a registry spelling to its tag.
func ParseTag(name string) (Tag, error) {
	for _, tn := range tagNames {
		if strings.EqualFold(tn.name, name) {
			return tn.tag, nil
		}
	}
	return 0, fmt.Errorf("unknown symbol tag %q", name)
}

// Has reports whether every bit of x is set in t.
func (t Tag) Has(x Tag) bool {
	return t&x == x
}

// String renders the set as "A|B" in declaration order.
func (t Tag) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	for _, tn := range tagNames {
		if t&tn.tag != 0 {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, "|")
}
