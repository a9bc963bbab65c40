package config

const (
	defaultDownloadDir      = "~/.local/share/ytfetch/downloads"
	defaultLogDir           = "~/.local/share/ytfetch/logs"
	defaultCookiesDir       = "~/.local/share/ytfetch/cookies"
	defaultAPIBind          = "127.0.0.1:8799"
	defaultCookiesMinValid  = 3
	defaultEngineBinary     = "yt-dlp"
	defaultEngineFormat     = "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]"
	defaultEngineRetries    = 3
	defaultSleepInterval    = 1
	defaultMaxSleepInterval = 5
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Cookies: Cookies{
			Dir:      defaultCookiesDir,
			MinValid: defaultCookiesMinValid,
		},
		Engine: Engine{
			Binary:           defaultEngineBinary,
			Format:           defaultEngineFormat,
			Retries:          defaultEngineRetries,
			FragmentRetries:  defaultEngineRetries,
			ExtractorRetries: defaultEngineRetries,
			SleepInterval:    defaultSleepInterval,
			MaxSleepInterval: defaultMaxSleepInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
