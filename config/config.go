package config

import (
	"errors"
	"io/fs"
	"strings"

	"colonoscopy-scheduler/internal/domain/entity"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	OpenAI    OpenAIConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Rules     entity.SchedulingRules
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis endpoint has been configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type RateLimitConfig struct {
	RequestsPerMinute int
	TrustedProxies    int
}

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"https://peaceful-khapse-24ced0.netlify.app",
	"https://*.netlify.app",
	"https://*.onrender.com",
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "3001")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 0)
	viper.SetDefault("RATE_LIMIT_TRUSTED_PROXIES", 0)

	// The .env file is optional in deployed environments where variables are
	// injected by the platform.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	rules := entity.DefaultSchedulingRules()
	if path := viper.GetString("SCHEDULING_RULES_FILE"); path != "" {
		loaded, err := LoadSchedulingRules(path)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	config := &Config{
		App: AppConfig{
			Port:     viper.GetString("APP_PORT"),
			Env:      viper.GetString("APP_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			Model:   viper.GetString("OPENAI_MODEL"),
			BaseURL: viper.GetString("OPENAI_BASE_URL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(viper.GetString("CORS_ALLOWED_ORIGINS"), defaultAllowedOrigins),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			TrustedProxies:    viper.GetInt("RATE_LIMIT_TRUSTED_PROXIES"),
		},
		Rules: rules,
	}

	return config, nil
}

func parseList(raw string, fallback []string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), fallback...)
	}

	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
