package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config mirrors the invocation parameters of an EPUB translation run,
// unmarshalled from config.yaml plus environment variables, adapted from
// the teacher's viper-based Config/LoadConfig shape.
type Config struct {
	SourceFile      string `mapstructure:"source_file"`
	TranslatedFile  string `mapstructure:"translated_file"`
	Language        string `mapstructure:"language"`
	Prompt          string `mapstructure:"prompt"`
	MaxChunkTokens  int    `mapstructure:"max_chunk_tokens"`
	MaxParagraph    int    `mapstructure:"max_paragraph"`
	Threads         int    `mapstructure:"threads"`
	RetryTimes      int    `mapstructure:"retry_times"`
	RetryIntervalS  float64 `mapstructure:"retry_interval_seconds"`

	Model       string  `mapstructure:"model"`
	TopP        float32 `mapstructure:"top_p"`
	Temperature float32 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`

	WorkDir    string `mapstructure:"work_dir"`
	CacheDir   string `mapstructure:"cache_dir"`
	BestEffort bool   `mapstructure:"best_effort"`
	CleanFormat bool  `mapstructure:"clean_format"`
}

// RetryInterval returns RetryIntervalS as a time.Duration.
func (c *Config) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalS * float64(time.Second))
}

// LoadConfig reads config.yaml from the current directory (if present),
// binds OPENAI_API_KEY the same way the teacher binds its provider key,
// and binds flags (when non-nil) so that flags set on the command line
// override config file and environment values.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("max_chunk_tokens", 2000)
	viper.SetDefault("max_paragraph", 500)
	viper.SetDefault("threads", 4)
	viper.SetDefault("retry_times", 3)
	viper.SetDefault("retry_interval_seconds", 2.0)
	viper.SetDefault("model", "gpt-4o-mini")
	viper.SetDefault("top_p", 1.0)
	viper.SetDefault("temperature", 0.3)
	viper.SetDefault("work_dir", ".books-translator")
	viper.SetDefault("cache_dir", "translated")

	viper.AutomaticEnv()
	viper.BindEnv("api_key", "OPENAI_API_KEY")
	viper.BindEnv("base_url", "OPENAI_BASE_URL")

	if flags != nil {
		if err := viper.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
