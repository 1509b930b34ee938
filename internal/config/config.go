package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendOpenAI = "openai"
	BackendEcho   = "echo"
)

type Config struct {
	Address            string        `mapstructure:"address"`
	Backend            string        `mapstructure:"backend"`
	BaseURL            string        `mapstructure:"base_url"`
	Organization       string        `mapstructure:"organization"`
	APIKey             string        `mapstructure:"api_key"`
	ModelsPath         string        `mapstructure:"models_path"`
	DefaultTemperature float64       `mapstructure:"default_temperature"`
	ShowModel          bool          `mapstructure:"show_model"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	MaxInputLength     int           `mapstructure:"max_input_length"`
	BannedTerms        []string      `mapstructure:"banned_terms"`
	TelemetryURL       string        `mapstructure:"telemetry_url"`
	LogLevel           string        `mapstructure:"log_level"`
	GinMode            string        `mapstructure:"gin_mode"`
}

// Load reads config.yaml from ./ or ./config, or the file at path when
// path is set. A .env file in the working directory is loaded first so
// OPENAI_API_KEY can live there.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// allow environment variables like GPTI_ADDRESS
	v.SetEnvPrefix("GPTI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// don't fail if config file is missing, allow env-only config
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("address", ":8501")
	v.SetDefault("backend", BackendOpenAI)
	v.SetDefault("base_url", "")
	v.SetDefault("organization", "")
	v.SetDefault("api_key", "")
	v.SetDefault("models_path", "")
	v.SetDefault("default_temperature", 0.3)
	v.SetDefault("show_model", true)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("max_input_length", 16000)
	v.SetDefault("banned_terms", []string{})
	v.SetDefault("telemetry_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("gin_mode", "release")
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendOpenAI, BackendEcho:
	default:
		return fmt.Errorf("invalid backend: %s", c.Backend)
	}
	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return fmt.Errorf("default_temperature %v outside [0, 2]", c.DefaultTemperature)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session_ttl must not be negative")
	}
	if c.MaxInputLength < 0 {
		return fmt.Errorf("max_input_length must not be negative")
	}
	return nil
}
