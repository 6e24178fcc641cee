package storage

// Config for the storage backend
type Config struct {
	// DataDir is where the flat JSON documents live.
	DataDir string
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		DataDir: "data",
	}
}
