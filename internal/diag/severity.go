package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

// String returns the lowercase name used in the structured outputs; the
// pretty printer upcases it for display.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps a case-insensitive name to a Severity.
func ParseSeverity(name string) (Severity, bool) {
	switch name {
	case "info", "INFO", "Info":
		return SevInfo, true
	case "warning", "WARNING", "Warning":
		return SevWarning, true
	case "error", "ERROR", "Error":
		return SevError, true
	}
	return SevInfo, false
}
