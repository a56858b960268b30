package factory

import (
	"github.com/phishplay/phishplay-backend/internal/adapters/mailer"
	"github.com/phishplay/phishplay-backend/internal/allowlist"
	"github.com/phishplay/phishplay-backend/internal/config"
	"go.uber.org/zap"
)

// MailerFactory creates the SMTP mailer
type MailerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailerFactory creates a new mailer factory
func NewMailerFactory(cfg *config.Config, logger *zap.Logger) *MailerFactory {
	return &MailerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailer creates an SMTP mailer guarded by the configured recipient allowlist
func (f *MailerFactory) CreateMailer() *mailer.SMTPMailer {
	deliveryCfg := f.cfg.GetDelivery()

	return mailer.NewSMTPMailer(
		deliveryCfg.SMTPAddress,
		deliveryCfg.Username,
		deliveryCfg.Password,
		deliveryCfg.EnvelopeFrom,
		allowlist.NewChecker(deliveryCfg.AllowedDomains, f.logger),
		f.logger,
	)
}
