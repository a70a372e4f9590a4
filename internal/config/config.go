package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the configured HTTP timeout, defaulting to 30s.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type PrefsConfig struct {
	Path   string `mapstructure:"path"`
	Secret string `mapstructure:"secret"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type NotifyConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	Secret  string `mapstructure:"secret"`
	DBPath  string `mapstructure:"db_path"`
}

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Prefs    PrefsConfig    `mapstructure:"prefs"`
	Export   ExportConfig   `mapstructure:"export"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory.
// Environment overrides use the SCL prefix, e.g. SCL_API_BASE_URL.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("SCL")
	// nested keys use dots internally, env vars use underscores
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("database.path", "data/scolab.db")
	v.SetDefault("prefs.path", "data/auth_prefs.json")
	v.SetDefault("export.dir", "exports")
	v.SetDefault("notify.address", "0.0.0.0")
	v.SetDefault("notify.port", 8090)
	v.SetDefault("notify.db_path", "data/notify.db")

	if err := v.ReadInConfig(); err != nil {
		// missing default config file is fine, the defaults above apply
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}
