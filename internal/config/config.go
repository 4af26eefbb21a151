// Package config provides configuration management for uni-remote.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".config/uni-remote"
	DefaultConfigFile = "config.yaml"
	DefaultDataDir    = ".local/share/uni-remote"
)

// DefaultServerURL matches the port a stock uni server binds to.
const DefaultServerURL = "http://localhost:3500"

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey      = errors.New("invalid configuration key")
	ErrInvalidURL      = errors.New("invalid server URL")
	ErrInvalidDuration = errors.New("invalid duration value")
	ErrNoEditor        = errors.New("$EDITOR environment variable not set")
)

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// durationKeys are the keys whose values must parse as a time.Duration.
var durationKeys = map[string]bool{
	"server.timeout":       true,
	"server.mod_cache_ttl": true,
}

// validate is the shared validator instance.
var validate = validator.New()

// Config represents the full uni-remote configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server" validate:"required"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" validate:"required"`
}

// ServerConfig holds the uni server connection settings.
type ServerConfig struct {
	URL         string        `mapstructure:"url" yaml:"url" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ModCacheTTL time.Duration `mapstructure:"mod_cache_ttl" yaml:"mod_cache_ttl"`
}

// BrowserConfig holds browser launch settings.
type BrowserConfig struct {
	// Command overrides the platform opener, e.g. "firefox --new-window".
	Command string `mapstructure:"command" yaml:"command"`
}

// StorageConfig holds local storage location configuration.
type StorageConfig struct {
	Saves string `mapstructure:"saves" yaml:"saves" validate:"required"`
	Mods  string `mapstructure:"mods" yaml:"mods" validate:"required"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a new configuration loader.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	configPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Environment variable binding
	v.SetEnvPrefix("UNIREMOTE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind specific env vars to config keys.
	// We intentionally ignore errors here as BindEnv only fails if called with zero arguments.
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("server.url", "UNIREMOTE_SERVER_URL")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("browser.command", "UNIREMOTE_BROWSER")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("storage.saves", "UNIREMOTE_SAVES_DIR")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("storage.mods", "UNIREMOTE_MODS_DIR")

	l := &Loader{
		v:       v,
		path:    configPath,
		homeDir: home,
	}

	// Set defaults before any config reading
	l.setDefaults()

	return l, nil
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("server.url", DefaultServerURL)
	l.v.SetDefault("server.timeout", "30s")
	l.v.SetDefault("server.mod_cache_ttl", "15m")
	l.v.SetDefault("browser.command", "")
	l.v.SetDefault("storage.saves", "~/"+DefaultDataDir+"/saves")
	l.v.SetDefault("storage.mods", "~/"+DefaultDataDir+"/mods")
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand paths
	cfg.Storage.Saves = l.expandPath(cfg.Storage.Saves)
	cfg.Storage.Mods = l.expandPath(cfg.Storage.Mods)

	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// All returns every merged setting, suitable for a yaml dump.
func (l *Loader) All() map[string]any {
	return l.v.AllSettings()
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// Set sets a configuration value by dot-notation key.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	// Validate the server URL shape before persisting it
	if key == "server.url" {
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s (want http(s)://host[:port])", ErrInvalidURL, value)
		}
	}

	// Duration keys must parse so Load doesn't fail later
	if durationKeys[key] {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s (want e.g. 30s, 15m)", ErrInvalidDuration, value)
		}
	}

	l.v.Set(key, value)
	return l.v.WriteConfig()
}

// createDefault writes the default configuration file using Viper.
func (l *Loader) createDefault() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return l.v.SafeWriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// ValidateKey checks if a key is a valid configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if validKeys[key] {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// buildValidKeys builds the set of valid keys from Config struct using reflection.
func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds keys from a struct type.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = true

		// Recurse into nested structs (but not maps)
		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
		}
	}
}
