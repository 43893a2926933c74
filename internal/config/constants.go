package config

// Default paths used when nothing is configured
const (
	// DefaultDatabasePath is the default path for the process database
	DefaultDatabasePath = "./newspaper-importer.db"

	// DefaultProcessDir is where process image directories are created
	DefaultProcessDir = "./processes"

	// DefaultConfigFile is the config file read when -config is not given
	DefaultConfigFile = "./newspaper-importer.yaml"
)
