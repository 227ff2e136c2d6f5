// internal/service/mailer_ses.go
package service

import (
	"context"
	"errors"
	"log/slog"

	"agape_study_api/internal/config"
	"agape_study_api/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the part of the SES client the mailer uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends mail through Amazon SES v2.
type SESMailer struct {
	client sesAPI
	from   string
}

// NewSESMailer builds the client with static credentials or the ambient IAM role,
// depending on ses.auth_type.
func NewSESMailer(ctx context.Context, cfg *config.Config) (*SESMailer, error) {
	if cfg.SES.Region == "" {
		return nil, errors.New("ses.region is required")
	}

	awsCfgOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SES.Region),
	}

	switch cfg.SES.AuthType {
	case "static_credentials":
		slog.Info("Configuring SES with static credentials.")
		if cfg.SES.AccessKeyID == "" || cfg.SES.SecretAccessKey == "" {
			return nil, errors.New("ses.auth_type is static_credentials but access_key_id or secret_access_key is missing")
		}
		creds := credentials.NewStaticCredentialsProvider(cfg.SES.AccessKeyID, cfg.SES.SecretAccessKey, "")
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))
	case "iam_role":
		slog.Info("Configuring SES with IAM Role credentials.")
	default:
		slog.Warn("Unknown SES auth_type specified, defaulting to IAM Role.", "type", cfg.SES.AuthType)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsCfgOpts...)
	if err != nil {
		return nil, err
	}

	return newSESMailerWithClient(sesv2.NewFromConfig(awsCfg), cfg.SES.From), nil
}

func newSESMailerWithClient(client sesAPI, from string) *SESMailer {
	return &SESMailer{client: client, from: from}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		logger.Error("Failed to send email via SES", "error", err, "to", to)
		return err
	}

	logger.Info("Email sent successfully via SES", "to", to, "subject", subject)
	return nil
}
