package rules

// Builtin returns the published rule taxonomy. The set is validated on
// every call; an invalid built-in set is a programming error surfaced as
// *RuleLoadError before any analysis runs.
func Builtin() (*Registry, error) {
	return NewRegistry(
		blockingAffinity(),
		unobservedAsync(),
		asyncVoidEntry(),
		uncheckedService(),
		hardcodedVisual(),
		syncSleep(),
		unexportedHandler(),
	)
}
