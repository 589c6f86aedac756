package config

const (
	defaultOBSHost           = "localhost"
	defaultOBSPort           = 4455
	defaultOBSConnectTimeout = 3
	defaultClipSeconds       = 30
	defaultIntervalSeconds   = 1800
	defaultErrorRetrySeconds = 60
	defaultMaxSizeMB         = 25.0
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultLogDir            = "~/.local/share/obsrec/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultNotifyTimeout     = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OBS: OBS{
			Host:           defaultOBSHost,
			Port:           defaultOBSPort,
			ConnectTimeout: defaultOBSConnectTimeout,
		},
		Recording: Recording{
			ClipSeconds:       defaultClipSeconds,
			IntervalSeconds:   defaultIntervalSeconds,
			ErrorRetrySeconds: defaultErrorRetrySeconds,
		},
		Video: Video{
			MaxSizeMB:     defaultMaxSizeMB,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Publish:        true,
			Errors:         true,
		},
	}
}
