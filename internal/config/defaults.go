package config

const (
	defaultOutputDir            = "~/Videos/rcrdr"
	defaultLogDir               = "~/.local/share/rcrdr/logs"
	defaultRecordingFPS         = 30
	defaultRecordingPreset      = "medium"
	defaultRecordingCRF         = 23
	defaultConversionFPS        = 10
	defaultConversionWidth      = 640
	defaultAssumedDuration      = 30
	defaultPollIntervalMillis   = 100
	defaultStopGraceMillis      = 500
	defaultCompletionHoldMillis = 1500
	defaultMinRecordSeconds     = 2
	defaultTestDurationSeconds  = 3
	defaultHistoryRetention     = 200
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Recording: Recording{
			FPS:    defaultRecordingFPS,
			Preset: defaultRecordingPreset,
			CRF:    defaultRecordingCRF,
		},
		Conversion: Conversion{
			FPS:                    defaultConversionFPS,
			Width:                  defaultConversionWidth,
			AssumedDurationSeconds: defaultAssumedDuration,
		},
		Workflow: Workflow{
			PollIntervalMillis:    defaultPollIntervalMillis,
			StopGraceMillis:       defaultStopGraceMillis,
			CompletionHoldMillis:  defaultCompletionHoldMillis,
			MinimumRecordSeconds:  defaultMinRecordSeconds,
			TestDurationSeconds:   defaultTestDurationSeconds,
			HistoryRetentionLimit: defaultHistoryRetention,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
