package config

const (
	defaultConfigPath  = "~/.config/easyanki/config.toml"
	projectConfigFile  = "easyanki.toml"
	catalogFileName    = "catalog.db"
	defaultWorkDir     = "~/.local/share/easyanki/videos"
	defaultLogDir      = "~/.local/share/easyanki/logs"
	defaultOCRLanguage = "pl"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	defaultSimilarityCutoff            = 0.95
	defaultCaptionTextSimilarityCutoff = 0.8
	defaultMinSegmentFrames            = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Segmentize: Segmentize{
			SimilarityCutoff:            defaultSimilarityCutoff,
			CaptionTextSimilarityCutoff: defaultCaptionTextSimilarityCutoff,
			MinSegmentFrames:            defaultMinSegmentFrames,
			FlushTrailingSegment:        true,
		},
		OCR: OCR{
			Language:  defaultOCRLanguage,
			Bilingual: true,
		},
		Cards: Cards{
			Tags: []string{"easyanki"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
