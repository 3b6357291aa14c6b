package config

const (
	defaultLocale     = "en"
	defaultMediaDir   = "~/.local/share/chipedit/media"
	defaultBaseURL    = "/m/"
	defaultLogLevel   = "info"
	defaultConfigPath = "~/.config/chipedit/config.toml"
)

var defaultAcceptedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"image/bmp",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Editor: Editor{Locale: defaultLocale},
		Upload: Upload{
			AcceptedTypes: append([]string(nil), defaultAcceptedTypes...),
			WantCaption:   true,
		},
		Media: Media{
			Dir:     defaultMediaDir,
			BaseURL: defaultBaseURL,
		},
		Logging: Logging{Level: defaultLogLevel},
	}
}
