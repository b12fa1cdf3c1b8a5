package ports

// Reporter emits human progress output during long operations. Adapters
// write to stderr so stdout stays clean for reports.
type Reporter interface {
	Stepf(format string, args ...any)
	Warnf(format string, args ...any)
}
