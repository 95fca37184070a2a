package config

const (
	defaultDataDir   = "~/.local/share/execlink"
	defaultLogDir    = "~/.local/share/execlink/logs"
	defaultReviewDir = "~/.local/share/execlink/review"

	defaultSourceDriver = "csv"
	defaultSourceTable  = "executives"

	defaultSinkDriver         = "file"
	defaultSinkRequestTimeout = 30

	defaultNtfyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ReviewDir: defaultReviewDir,
		},
		Source: Source{
			Driver: defaultSourceDriver,
			Table:  defaultSourceTable,
		},
		Matching: Matching{
			NameWeight:          0.50,
			AddressWeight:       0.25,
			TitleWeight:         0.15,
			CompanyWeight:       0.10,
			MinGroupThreshold:   0.75,
			AutoAcceptThreshold: 0.85,
			MissingFieldScore:   0.5,
		},
		Sink: Sink{
			Driver:         defaultSinkDriver,
			RequestTimeout: defaultSinkRequestTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Review: Review{
			OpenArtifact: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
