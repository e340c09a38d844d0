package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance so CLI flag bindings participate.
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	// Config file settings
	v.SetConfigName("swinject")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (SWINJECT_*)
	v.SetEnvPrefix("SWINJECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("injection_point", DefaultInjectionPoint)
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("compile_src", true)
	v.SetDefault("exclude", DefaultExcludePatterns)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.directory", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "pretty")
}
