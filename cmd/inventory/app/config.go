package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roomstock/inventory/pkg/constants"
	"github.com/roomstock/inventory/pkg/errors"
)

// EnvPrefix prefixes every environment variable the CLI reads, except the
// shared LOG_* settings.
const EnvPrefix = "INVENTORY"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Canonical dataset
	Data         string
	DataAuth     string
	DataToken    string
	FetchTimeout time.Duration

	// Patch store
	StoreBackend string
	StoreDir     string
	StoreKey     string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables (INVENTORY_DATA, INVENTORY_STORE_DIR, ...)
// 3. .env files
// 4. Config file (~/.inventory.yaml or ./.inventory.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv(EnvPrefix + "_CONFIG"))
}

func loadConfig(configFile string) (*Config, error) {
	// .env files must be loaded before viper binds the environment
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data", constants.DefaultDataPath)
	v.SetDefault("data_auth", "none")
	v.SetDefault("fetch_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", constants.DefaultStoreDir)
	v.SetDefault("store.key", constants.EditsKey)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".inventory")
	}

	if err := v.ReadInConfig(); err != nil {
		// a missing default config is fine; a named one must exist
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read config file", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Data:         v.GetString("data"),
		DataAuth:     v.GetString("data_auth"),
		DataToken:    v.GetString("data_token"),
		FetchTimeout: v.GetDuration("fetch_timeout"),

		StoreBackend: v.GetString("store.backend"),
		StoreDir:     v.GetString("store.dir"),
		StoreKey:     v.GetString("store.key"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.FetchTimeout <= 0 {
		config.FetchTimeout = constants.DefaultHTTPTimeout
	}

	return config, nil
}

// Flags carries the root flag values that override loaded configuration.
type Flags struct {
	ConfigFile   string
	Verbose      bool
	Quiet        bool
	NoColor      bool
	Format       string
	LogLevel     string
	Data         string
	StoreBackend string
	StoreDir     string
}

// UpdateFromFlags updates config values from parsed command flags so that
// flags take precedence over config files and the environment. Empty
// string flags leave the loaded value in place.
func (c *Config) UpdateFromFlags(f Flags) {
	c.Verbose = f.Verbose
	c.Quiet = f.Quiet
	c.NoColor = c.NoColor || f.NoColor
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.Data != "" {
		c.Data = f.Data
	}
	if f.StoreBackend != "" {
		c.StoreBackend = f.StoreBackend
	}
	if f.StoreDir != "" {
		c.StoreDir = f.StoreDir
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is read first so its values win; godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
