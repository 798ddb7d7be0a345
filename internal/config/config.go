package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	ServerPort  int    `mapstructure:"SERVER_PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	JWTAccessSecret  string        `mapstructure:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string        `mapstructure:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL  time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`

	KafkaBrokersRaw string `mapstructure:"KAFKA_BROKERS"`

	ESURL      string `mapstructure:"ES_URL"`
	ESUsername string `mapstructure:"ES_USERNAME"`
	ESPassword string `mapstructure:"ES_PASSWORD"`
	ESIndex    string `mapstructure:"ES_INDEX"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
	FrontendURL  string `mapstructure:"FRONTEND_URL"`

	CORSOriginsRaw string `mapstructure:"CORS_ORIGINS"`

	DefaultExchangeRate  string        `mapstructure:"DEFAULT_EXCHANGE_RATE"`
	PasswordResetTTL     time.Duration `mapstructure:"PASSWORD_RESET_TTL"`
	EmailVerificationTTL time.Duration `mapstructure:"EMAIL_VERIFICATION_TTL"`
}

var defaults = map[string]any{
	"SERVICE_NAME":           "sweet_shop",
	"SERVER_PORT":            8080,
	"LOG_LEVEL":              "info",
	"DATABASE_URL":           "",
	"JWT_ACCESS_SECRET":      "",
	"JWT_REFRESH_SECRET":     "",
	"ACCESS_TOKEN_TTL":       "15m",
	"REFRESH_TOKEN_TTL":      "168h",
	"KAFKA_BROKERS":          "",
	"ES_URL":                 "",
	"ES_USERNAME":            "",
	"ES_PASSWORD":            "",
	"ES_INDEX":               "products",
	"REDIS_ADDR":             "",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"SMTP_HOST":              "",
	"SMTP_PORT":              587,
	"SMTP_USERNAME":          "",
	"SMTP_PASSWORD":          "",
	"MAIL_FROM":              "no-reply@sweetshop.local",
	"FRONTEND_URL":           "http://localhost:3000",
	"CORS_ORIGINS":           "http://localhost:3000",
	"DEFAULT_EXCHANGE_RATE":  "1.00",
	"PASSWORD_RESET_TTL":     "1h",
	"EMAIL_VERIFICATION_TTL": "24h",
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	for key, def := range defaults {
		v.SetDefault(key, def)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	for env, val := range map[string]string{
		"DATABASE_URL":       c.DatabaseURL,
		"JWT_ACCESS_SECRET":  c.JWTAccessSecret,
		"JWT_REFRESH_SECRET": c.JWTRefreshSecret,
	} {
		if err := nonEmpty(val, env); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.ExchangeRateDefault(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) KafkaBrokers() []string { return CSV(c.KafkaBrokersRaw) }

func (c *Config) CORSOrigins() []string { return CSV(c.CORSOriginsRaw) }

func (c *Config) ExchangeRateDefault() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.DefaultExchangeRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("DEFAULT_EXCHANGE_RATE: %w", err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("DEFAULT_EXCHANGE_RATE must be > 0")
	}
	return rate, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonEmpty(value, envName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}
