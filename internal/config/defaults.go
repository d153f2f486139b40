package config

const (
	defaultMkvmerge   = "mkvmerge"
	defaultMkvextract = "mkvextract"
	defaultCacheDir   = "~/.cache/mkvplan"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Mkvmerge:   defaultMkvmerge,
			Mkvextract: defaultMkvextract,
		},
		Cache: Cache{
			Enabled:   true,
			Directory: defaultCacheDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
