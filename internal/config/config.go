package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"grafanapdf/pkg/sdk"
)

const (
	defaultConfigName   = "config.yaml"
	defaultDatabaseFile = "client.db"
	defaultCookieFile   = "cookies.json"
	appName             = "grafana-pdf"

	// EnvPrefix prefixes every environment override, e.g. GRAFANA_PDF_API_URL.
	EnvPrefix = "GRAFANA_PDF_"
)

type APIConfig struct {
	URL     string        `koanf:"url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

type StorageConfig struct {
	DatabasePath string `koanf:"database_path" validate:"required"`
	CookiePath   string `koanf:"cookie_path" validate:"required"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type PreferencesConfig struct {
	Language string `koanf:"language" validate:"omitempty,len=2,alpha,lowercase"`
	Theme    string `koanf:"theme" validate:"omitempty,oneof=dark light"`
}

type Config struct {
	API         APIConfig         `koanf:"api"`
	Storage     StorageConfig     `koanf:"storage"`
	Logging     LoggingConfig     `koanf:"logging"`
	Preferences PreferencesConfig `koanf:"preferences"`
}

// IsDev reports whether the client runs against a development config dir.
func IsDev() bool {
	return os.Getenv(EnvPrefix+"DEV") == "1"
}

// Dir returns the per-user config directory of the client.
func Dir() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error getting user config directory: %w", err)
	}
	name := appName
	if IsDev() {
		name = appName + "-dev"
	}
	return filepath.Join(userConfigDir, name), nil
}

func defaultConfig(configDir string) *Config {
	return &Config{
		API: APIConfig{
			URL:     sdk.DefaultBaseURL,
			Timeout: sdk.DefaultTimeout,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(configDir, defaultDatabaseFile),
			CookiePath:   filepath.Join(configDir, defaultCookieFile),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// LoadConfig layers defaults, the YAML file in configDir and GRAFANA_PDF_* environment
// variables, in that order. The file is created with the defaults when missing.
func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(configDir), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := filepath.Join(configDir, defaultConfigName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := createDefaultConfig(k, configPath); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func createDefaultConfig(k *koanf.Koanf, configPath string) error {
	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// envTransform maps GRAFANA_PDF_API_URL to api.url and
// GRAFANA_PDF_STORAGE_DATABASE_PATH to storage.database_path.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + rest
}

func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}
