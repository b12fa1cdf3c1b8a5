package ports

// ToolInitializer scaffolds a cdrtools config directory.
type ToolInitializer interface {
	Init(dir string, force bool) error
}
