// internal/config/config.go
package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MailerConfig struct {
	Type string `mapstructure:"type"` // "log" or "ses"
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "iam_role" or "static_credentials"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
}

type AppConfig struct {
	Name                string `mapstructure:"name"`
	DailyMessageEpoch   string `mapstructure:"daily_message_epoch"`
	RandomQuestionLimit int    `mapstructure:"random_question_limit"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Mailer    MailerConfig    `mapstructure:"mailer"`
	SES       SESConfig       `mapstructure:"ses"`
	App       AppConfig       `mapstructure:"app"`
}

var Cfg Config

// LoadConfig reads config.yaml from path (or the working directory) and
// overlays APP_* environment variables, e.g. APP_DATABASE_URL.
func LoadConfig(path string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Warn("Config file not found, using defaults and environment variables")
		} else {
			slog.Error("Error reading config file", "error", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("Error unmarshalling config", "error", err)
		return err
	}
	applyFallbacks(&cfg)
	Cfg = cfg

	if Cfg.Database.URL == "" {
		slog.Warn("Database URL is not set in config")
	}
	if Cfg.JWT.SecretKey == DefaultJWTSecret {
		slog.Warn("JWT secret key is the built-in default; set APP_JWT_SECRET_KEY")
	}

	slog.Info("Config loaded successfully",
		"server_port", Cfg.Server.Port,
		"log_level", Cfg.Log.Level,
		"mailer_type", Cfg.Mailer.Type,
		"auto_migrate", Cfg.Database.AutoMigrate,
	)
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.request_timeout", DefaultRequestTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", DefaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultConnMaxLifetime)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("jwt.secret_key", DefaultJWTSecret)
	v.SetDefault("jwt.access_token_ttl", DefaultAccessTokenTTL)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)
	v.SetDefault("rate_limit.requests_per_second", DefaultRateLimitRPS)
	v.SetDefault("rate_limit.burst", DefaultRateLimitBurst)
	v.SetDefault("mailer.type", DefaultMailerType)
	v.SetDefault("mailer.from", DefaultMailFrom)
	v.SetDefault("ses.region", "")
	v.SetDefault("ses.auth_type", "iam_role")
	v.SetDefault("ses.access_key_id", "")
	v.SetDefault("ses.secret_access_key", "")
	v.SetDefault("ses.from", "")
	v.SetDefault("app.name", AppName)
	v.SetDefault("app.daily_message_epoch", DefaultDailyMessageEpoch)
	v.SetDefault("app.random_question_limit", DefaultRandomQuestionLimit)
}

// applyFallbacks repairs values that were set but unusable.
func applyFallbacks(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}
	if cfg.App.RandomQuestionLimit <= 0 {
		cfg.App.RandomQuestionLimit = DefaultRandomQuestionLimit
	}
	if _, err := time.Parse(DateLayout, cfg.App.DailyMessageEpoch); err != nil {
		slog.Warn("Invalid app.daily_message_epoch, using default", "value", cfg.App.DailyMessageEpoch)
		cfg.App.DailyMessageEpoch = DefaultDailyMessageEpoch
	}
	if cfg.SES.From == "" {
		cfg.SES.From = cfg.Mailer.From
	}
}

// DailyMessageEpoch returns the parsed rotation epoch (UTC midnight).
func (c *Config) DailyMessageEpoch() time.Time {
	t, err := time.Parse(DateLayout, c.App.DailyMessageEpoch)
	if err != nil {
		t, _ = time.Parse(DateLayout, DefaultDailyMessageEpoch)
	}
	return t
}
