// Package diagfmt renders analysis results for humans and tools.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute automatically.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) formatArg() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// PrettyOpts configures the human-readable report.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	ShowFixes bool
	// Max truncates the report after this many diagnostics; 0 means all.
	Max int
}

// JSONOpts configures the structured record stream.
type JSONOpts struct {
	PathMode PathMode
	Max      int
}

// SarifMeta carries tool identity for SARIF runs.
type SarifMeta struct {
	ToolName    string
	ToolVersion string
}
