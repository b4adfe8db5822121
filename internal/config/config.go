package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. QUIZ_SERVER_PORT.
const EnvPrefix = "QUIZ"

type Config struct {
	Server struct {
		Port          string `mapstructure:"port"`
		SessionSecret string `mapstructure:"session_secret"`
	} `mapstructure:"server"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		TTL      string `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	Postgres struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"postgres"`
	Quiz struct {
		Dir     string `mapstructure:"dir"`
		TTL     string `mapstructure:"ttl"`
		Default string `mapstructure:"default"`
		Source  string `mapstructure:"source"`
	} `mapstructure:"quiz"`
	Translation struct {
		Enabled    bool   `mapstructure:"enabled"`
		APIKey     string `mapstructure:"api_key"`
		BaseURL    string `mapstructure:"base_url"`
		Model      string `mapstructure:"model"`
		Timeout    string `mapstructure:"timeout"`
		Cache      string `mapstructure:"cache"`
		CacheSize  int    `mapstructure:"cache_size"`
		CacheTTL   string `mapstructure:"cache_ttl"`
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"translation"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	Language string `mapstructure:"language"`
}

// Load reads .env (if present), then the YAML config at path, then QUIZ_*
// environment overrides. An empty path looks for config.yaml in . and
// ./config and tolerates its absence.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("translation.api_key", "OPENAI_API_KEY", EnvPrefix+"_TRANSLATION_API_KEY")
	_ = v.BindEnv("server.port", "PORT", EnvPrefix+"_SERVER_PORT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// DefaultSessionSecret signs session cookies when none is configured.
const DefaultSessionSecret = "change-me-session-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.session_secret", DefaultSessionSecret)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "30m")
	v.SetDefault("postgres.url", "")
	v.SetDefault("quiz.dir", ".")
	v.SetDefault("quiz.ttl", "5m")
	v.SetDefault("quiz.default", "sample_quiz")
	v.SetDefault("quiz.source", "files")
	v.SetDefault("translation.enabled", true)
	v.SetDefault("translation.api_key", "")
	v.SetDefault("translation.base_url", "")
	v.SetDefault("translation.model", "")
	v.SetDefault("translation.timeout", "5s")
	v.SetDefault("translation.cache", "memory")
	v.SetDefault("translation.cache_size", 1000)
	v.SetDefault("translation.cache_ttl", "720h")
	v.SetDefault("translation.sqlite_path", "translations.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("language", "zh_TW")
}

// TranslationEnabled reports whether automatic translation can run.
func (c Config) TranslationEnabled() bool {
	return c.Translation.Enabled && c.Translation.APIKey != ""
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
