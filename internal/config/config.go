// Package config holds the typed configuration shared by the desktop and
// web binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/MihkelHunter/mkFocus/internal/streak"
	"github.com/MihkelHunter/mkFocus/internal/timer"
	"github.com/MihkelHunter/mkFocus/internal/todo"
)

// Storage backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds typed configuration.
type Config struct {
	LogLevel       string
	DataDir        string
	Store          string
	RedisAddr      string
	RedisPrefix    string
	HTTPAddr       string
	ExpiryDelay    time.Duration
	DefaultMinutes int
	CalendarDays   int
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper, home string) {
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", filepath.Join(home, ".mkfocus"))
	v.SetDefault("store", StoreSQLite)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_prefix", "mkfocus:")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("expiry_delay", todo.DefaultExpiry)
	v.SetDefault("default_minutes", timer.DefaultMinutes)
	v.SetDefault("calendar_days", streak.DefaultDays)
}

// ReadInConfig points v at cfgFile, or searches ./mkfocus.yaml and
// ~/.mkfocus/mkfocus.yaml when cfgFile is empty, then reads it. Environment
// variables prefixed MKFOCUS_, including those from a ./.env file, override
// file values. A missing file is not an error; it returns the path that was
// used, if any.
func ReadInConfig(v *viper.Viper, cfgFile, home string) (string, error) {
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("mkfocus")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".mkfocus"))
	}

	v.SetEnvPrefix("mkfocus")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load reads all values from the given viper instance.
func Load(v *viper.Viper) Config {
	return Config{
		LogLevel:       v.GetString("log_level"),
		DataDir:        v.GetString("data_dir"),
		Store:          v.GetString("store"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisPrefix:    v.GetString("redis_prefix"),
		HTTPAddr:       v.GetString("http_addr"),
		ExpiryDelay:    v.GetDuration("expiry_delay"),
		DefaultMinutes: v.GetInt("default_minutes"),
		CalendarDays:   v.GetInt("calendar_days"),
	}
}

// DBPath is the SQLite file inside DataDir.
func (c Config) DBPath() string { return filepath.Join(c.DataDir, "focus.db") }
