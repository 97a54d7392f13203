package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./manuscript.db"

	// DefaultSourcesDir is where the local blob provider keeps uploaded sources
	DefaultSourcesDir = "./data/sources"

	// DefaultOutputDir is the root for rendered PDFs and sites
	DefaultOutputDir = "./output"
)

// Storage providers
const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)
