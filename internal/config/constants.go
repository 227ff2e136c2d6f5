// internal/config/constants.go
package config

import "time"

const (
	AppName    = "agape-study-api"
	AppVersion = "1.0.0"
)

const DateLayout = "2006-01-02"

const (
	DefaultServerPort          = ":8080"
	DefaultRequestTimeout      = 30 * time.Second
	DefaultShutdownTimeout     = 10 * time.Second
	DefaultMaxOpenConns        = 25
	DefaultMaxIdleConns        = 10
	DefaultConnMaxLifetime     = time.Hour
	DefaultLogLevel            = "info"
	DefaultJWTSecret           = "change-me"
	DefaultAccessTokenTTL      = time.Hour
	DefaultRateLimitRPS        = 5.0
	DefaultRateLimitBurst      = 10
	DefaultMailerType          = "log"
	DefaultMailFrom            = "no-reply@agape.local"
	DefaultDailyMessageEpoch   = "2025-06-01"
	DefaultRandomQuestionLimit = 10
)
