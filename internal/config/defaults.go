package config

const (
	defaultMappingFile    = "~/.config/clearlogo/mapping.json"
	defaultLogDir         = "~/.local/share/clearlogo/logs"
	defaultHistoryDB      = "~/.local/share/clearlogo/history.db"
	defaultTimeoutSeconds = 30
	defaultUploadDelayMS  = 50
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"

	// tokenPlaceholder is the sample-config value that must be replaced
	// before the tool will connect.
	tokenPlaceholder = "YOUR_PLEX_TOKEN_HERE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Paths: Paths{
			MappingFile: defaultMappingFile,
			LogDir:      defaultLogDir,
			HistoryDB:   defaultHistoryDB,
		},
		Upload: Upload{
			DelayMS: defaultUploadDelayMS,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
