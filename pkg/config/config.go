package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const EnvPrefix = "FINSUM"

type StoreConfig struct {
	// Driver is one of memory, postgres or ynab.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type YNABConfig struct {
	Token     string `mapstructure:"token"`
	BudgetID  string `mapstructure:"budget_id"`
	AccountID string `mapstructure:"account_id"`
}

type Config struct {
	LogLevel  string      `mapstructure:"log_level"`
	User      string      `mapstructure:"user"`
	Timezone  string      `mapstructure:"timezone"`
	RulesFile string      `mapstructure:"rules_file"`
	ChunkSize int         `mapstructure:"chunk_size"`
	Schedule  string      `mapstructure:"schedule"`
	Store     StoreConfig `mapstructure:"store"`
	YNAB      YNABConfig  `mapstructure:"ynab"`
}

var defaults = map[string]any{
	"log_level":       "info",
	"user":            "anonymous",
	"timezone":        "Local",
	"rules_file":      "",
	"chunk_size":      50,
	"schedule":        "@hourly",
	"store.driver":    "memory",
	"store.dsn":       "",
	"ynab.token":      "",
	"ynab.budget_id":  "",
	"ynab.account_id": "",
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"user":       "user",
	"timezone":   "timezone",
	"rules":      "rules_file",
	"chunk-size": "chunk_size",
	"schedule":   "schedule",
	"store":      "store.driver",
	"dsn":        "store.dsn",
}

// Build loads configuration from, in increasing priority: defaults, a .env
// file, the config file, FINSUM_ environment variables and flags that were
// set. An empty cfgFile looks for finsum.yaml in the working directory and
// tolerates its absence.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("finsum")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Location resolves Timezone. "Local" and the empty string mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
