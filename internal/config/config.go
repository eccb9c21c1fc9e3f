package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port      string `env:"PORT" env-default:"8080"`
	Region    string `env:"AWS_REGION" env-required:"true"`
	TableName string `env:"TABLE_NAME" env-required:"true"`

	// AppDomain is the domain half of the (route, domain) permission key for
	// this deployment.
	AppDomain string `env:"APP_DOMAIN" env-default:"localhost"`

	AccessSecret   string        `env:"JWT_SECRET_ACCESS_TOKEN" env-required:"true"`
	RefreshSecret  string        `env:"JWT_SECRET_REFRESH_TOKEN" env-required:"true"`
	RecoverySecret string        `env:"JWT_SECRET_PASSWORD_RECOVERY" env-required:"true"`
	AccessTTL      time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTTL     time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"168h"`

	// SingleSessionRefresh rotates the refresh token on every /refresh call
	// instead of reusing the stored one.
	SingleSessionRefresh bool `env:"SINGLE_SESSION_REFRESH_TOKEN" env-default:"false"`

	PasswordResetURL string `env:"PASSWORD_RESET_URL" env-default:"http://localhost:8080/reset-password"`
	RouteCacheSize   int    `env:"ROUTE_CACHE_SIZE" env-default:"256"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
