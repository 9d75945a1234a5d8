package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"extlint/internal/diag"
	"extlint/internal/source"
)

// cacheSchemaVersion is bumped whenever the payload shape changes, which
// orphans every older entry.
const cacheSchemaVersion uint16 = 1

// Cache stores per-file analysis results keyed by content hash. Entries
// also carry the rule set fingerprint; a fingerprint mismatch is a miss, so
// editing the taxonomy invalidates everything without a sweep.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// payload is the serialized form of one file's diagnostics. Spans are kept
// as raw offsets because FileIDs are only meaningful within one run.
type payload struct {
	Schema      uint16
	Fingerprint string
	Items       []cachedDiag
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
	Fixes    []cachedFix
}

type cachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedFix struct {
	ID            string
	Title         string
	Applicability uint8
	Edits         []cachedEdit
}

type cachedEdit struct {
	Start   uint32
	End     uint32
	NewText string
	OldText string
}

// OpenCache returns the disk cache under the XDG cache directory. A nil
// *Cache is valid and never hits the disk.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "analysis")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt returns a cache rooted at an explicit directory.
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, fmt.Sprintf("%x.mp", key))
}

// Put stores the diagnostics for one file version.
func (c *Cache) Put(file *source.File, fingerprint string, items []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := payload{
		Schema:      cacheSchemaVersion,
		Fingerprint: fingerprint,
		Items:       make([]cachedDiag, 0, len(items)),
	}
	for _, d := range items {
		p.Items = append(p.Items, freezeDiag(d))
	}

	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := msgpack.NewEncoder(tmp).Encode(&p); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.pathFor(file.Hash))
}

// Get returns the cached diagnostics for the file's current content, spans
// rebound to the file's ID in this run. Misses, schema drift, and
// fingerprint drift all return ok=false.
func (c *Cache) Get(file *source.File, fingerprint string) ([]diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(file.Hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, false, nil // corrupt entry, treat as miss
	}
	if p.Schema != cacheSchemaVersion || p.Fingerprint != fingerprint {
		return nil, false, nil
	}

	items := make([]diag.Diagnostic, 0, len(p.Items))
	for _, cd := range p.Items {
		items = append(items, thawDiag(cd, file.ID))
	}
	return items, true, nil
}

// DropAll removes every cached entry.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func freezeDiag(d diag.Diagnostic) cachedDiag {
	out := cachedDiag{
		Severity: uint8(d.Severity),
		Code:     uint16(d.Code),
		Message:  d.Message,
		Start:    d.Primary.Start,
		End:      d.Primary.End,
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
	}
	for _, f := range d.Fixes {
		cf := cachedFix{ID: f.ID, Title: f.Title, Applicability: uint8(f.Applicability)}
		for _, e := range f.Edits {
			cf.Edits = append(cf.Edits, cachedEdit{
				Start: e.Span.Start, End: e.Span.End,
				NewText: e.NewText, OldText: e.OldText,
			})
		}
		out.Fixes = append(out.Fixes, cf)
	}
	return out
}

func thawDiag(cd cachedDiag, id source.FileID) diag.Diagnostic {
	span := func(start, end uint32) source.Span {
		return source.Span{File: id, Start: start, End: end}
	}
	out := diag.Diagnostic{
		Severity: diag.Severity(cd.Severity),
		Code:     diag.Code(cd.Code),
		Message:  cd.Message,
		Primary:  span(cd.Start, cd.End),
	}
	for _, n := range cd.Notes {
		out.Notes = append(out.Notes, diag.Note{Span: span(n.Start, n.End), Msg: n.Msg})
	}
	for _, f := range cd.Fixes {
		df := diag.Fix{
			ID:            f.ID,
			Title:         f.Title,
			Applicability: diag.FixApplicability(f.Applicability),
		}
		for _, e := range f.Edits {
			df.Edits = append(df.Edits, diag.TextEdit{
				Span:    span(e.Start, e.End),
				NewText: e.NewText,
				OldText: e.OldText,
			})
		}
		out.Fixes = append(out.Fixes, df)
	}
	return out
}
