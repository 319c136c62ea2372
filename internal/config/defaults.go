package config

const (
	defaultOutputRoot    = "./sorted"
	defaultQueueCapacity = 48
	defaultDirPerm       = "0755"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OutputRoot:    defaultOutputRoot,
		QueueCapacity: defaultQueueCapacity,
		DirPerm:       defaultDirPerm,
		Lock:          true,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
