// internal/service/mailer.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"agape_study_api/internal/config"
	"agape_study_api/internal/middleware"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes outgoing mail to the log. Used in development and tests.
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending Email (LogMailer) ---", "to", to, "subject", subject, "body", body)
	return nil
}

// NewMailer picks the implementation from mailer.type. An SES setup error
// falls back to LogMailer so the API still starts.
func NewMailer(ctx context.Context, cfg *config.Config) Mailer {
	logger := slog.Default()
	switch cfg.Mailer.Type {
	case "ses":
		logger.Info("Initializing SES mailer...", "region", cfg.SES.Region)
		mailer, err := NewSESMailer(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize SES mailer, falling back to LogMailer", "error", err)
			return &LogMailer{}
		}
		return mailer
	case "log":
		logger.Info("Initializing Log mailer...")
		return &LogMailer{}
	default:
		logger.Warn("Unknown mailer type, defaulting to LogMailer", "type", cfg.Mailer.Type)
		return &LogMailer{}
	}
}

func welcomeEmail(name string) (subject, body string) {
	subject = "Bem-vindo ao Ágape!"
	body = fmt.Sprintf("Olá, %s!\n\nSua conta foi criada com sucesso. Bons estudos!\n\nEquipe Ágape", name)
	return subject, body
}
