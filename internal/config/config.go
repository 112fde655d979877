package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Defaults that match the common search workflows: whole-sentence matches
// need no padding, word-level strategies get a little breathing room.
const (
	DefaultSearchType        = "sentence"
	DefaultWordPadding       = 0.1
	DefaultSemanticThreshold = 0.4
	DefaultEmbedModel        = "nomic-embed-text"
	DefaultOutput            = "supercut.mp4"
)

// Config is everything outside a single search call: tool paths, model
// choices, and workflow defaults. Values resolve in the usual order: flag >
// environment (VIDEOGREP_*) > config file > default.
type Config struct {
	Output            string  `mapstructure:"output"`
	SearchType        string  `mapstructure:"search_type"`
	Padding           float64 `mapstructure:"padding"`
	Resync            float64 `mapstructure:"resync"`
	PreferExtension   string  `mapstructure:"prefer_extension"`
	SemanticThreshold float64 `mapstructure:"semantic_threshold"`
	EmbedModel        string  `mapstructure:"embed_model"`
	EmbedBaseURL      string  `mapstructure:"embed_base_url"`

	FFmpegPath   string `mapstructure:"ffmpeg_path"`
	FFprobePath  string `mapstructure:"ffprobe_path"`
	WhisperBin   string `mapstructure:"whisper_bin"`
	WhisperModel string `mapstructure:"whisper_model"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads the optional config file and the environment. cfgFile may be
// empty, in which case ~/.videogrep.yaml and ./videogrep.yaml are tried;
// a missing file is not an error.
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("output", DefaultOutput)
	v.SetDefault("search_type", DefaultSearchType)
	v.SetDefault("semantic_threshold", DefaultSemanticThreshold)
	v.SetDefault("embed_model", DefaultEmbedModel)
	v.SetDefault("ffmpeg_path", "ffmpeg")
	v.SetDefault("ffprobe_path", "ffprobe")
	v.SetDefault("whisper_bin", "whisper-cli")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("VIDEOGREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("videogrep")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" {
			return Config{}, err
		}
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPadding returns the padding to apply when the caller gave none:
// word-level strategies pad, sentence-level ones do not.
func DefaultPadding(searchType string) float64 {
	switch searchType {
	case "fragment", "mash":
		return DefaultWordPadding
	}
	return 0
}
