package symbols

import "strings"

// Table maps dotted API names to behavior tags. Lookup tries the full path,
// then the last two segments, then the bare member name, so "System.Threading.
// Thread.Sleep", "Thread.Sleep" and a lone "Sleep" all land on one entry.
// Unknown names resolve to the empty set; the analyzer never guesses.
type Table struct {
	exact  map[string]Tag // full or two-segment dotted paths
	member map[string]Tag // bare member names
}

func newTable() *Table {
	return &Table{
		exact:  make(map[string]Tag),
		member: make(map[string]Tag),
	}
}

// Register adds one name. Dotted names go to the path index, bare names to
// the member index. Registering the same name twice unions the tags.
func (t *Table) Register(name string, tags Tag) {
	if name == "" || tags == 0 {
		return
	}
	if strings.Contains(name, ".") {
		t.exact[name] |= tags
		return
	}
	t.member[name] |= tags
}

// Resolve returns the tag set for a dotted name.
func (t *Table) Resolve(qualified string) Tag {
	if qualified == "" {
		return 0
	}
	if tags, ok := t.exact[qualified]; ok {
		return tags
	}
	if suffix := lastSegments(qualified, 2); suffix != qualified {
		if tags, ok := t.exact[suffix]; ok {
			return tags
		}
	}
	member := lastSegments(qualified, 1)
	if tags, ok := t.member[member]; ok {
		return tags
	}
	// Convention fallback: a *Async member is treated as asynchronous work
	// even when the registry has never heard of it.
	if len(member) > len("Async") && strings.HasSuffix(member, "Async") {
		return AsyncEntryPoint
	}
	return 0
}

// lastSegments returns the trailing n dot-separated segments of name.
func lastSegments(name string, n int) string {
	idx := len(name)
	for ; n > 0; n-- {
		dot := strings.LastIndexByte(name[:idx], '.')
		if dot < 0 {
			return name
		}
		idx = dot
	}
	return name[idx+1:]
}
