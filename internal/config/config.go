package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type IndexConfig struct {
	Path string `mapstructure:"path"`
}

type LookupConfig struct {
	CacheSize   int  `mapstructure:"cache_size"`
	WarnMissing bool `mapstructure:"warn_missing"`
}

type Config struct {
	Index  IndexConfig  `mapstructure:"index"`
	Lookup LookupConfig `mapstructure:"lookup"`

	// Commands maps a type identifier ("T:Acme.Commands.GetWidget") to the
	// Verb-Noun command name it is exposed as. Cross-references to these
	// types render as the command name instead of the type name.
	Commands map[string]string `mapstructure:"commands"`
}

// cacheBase returns the base cache directory for clrdoc.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/clrdoc as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "clrdoc")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "clrdoc")
	}
	return filepath.Join(os.TempDir(), "clrdoc")
}

// DBPath returns the path to the member index database file.
func DBPath() string {
	return filepath.Join(cacheBase(), "index.db")
}

// DocCacheDir returns the directory holding compressed documentation files.
func DocCacheDir() string {
	return filepath.Join(cacheBase(), "docs")
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "clrdoc"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "clrdoc"))
	}

	viper.SetDefault("lookup.cache_size", 4096)
	viper.SetDefault("lookup.warn_missing", false)

	viper.SetEnvPrefix("CLRDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Index.Path == "" {
		config.Index.Path = DBPath()
	}

	return &config, nil
}
