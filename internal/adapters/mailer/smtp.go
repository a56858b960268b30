package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/phishplay/phishplay-backend/internal/core"
	"go.uber.org/zap"
)

// Headers stamped on every delivered training message
const (
	HeaderTraining = "X-PhishPlay-Training"
	HeaderScenario = "X-PhishPlay-Scenario"
)

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// RecipientPolicy reports whether an address may receive training mail
type RecipientPolicy interface {
	IsAllowed(address string) bool
}

// SMTPMailer delivers scenario emails to a real mailbox through an SMTP relay
type SMTPMailer struct {
	address      string
	username     string
	password     string
	envelopeFrom string
	policy       RecipientPolicy
	send         SendFunc
	now          func() time.Time
	logger       *zap.Logger
}

var _ core.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(address, username, password, envelopeFrom string, policy RecipientPolicy, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		address:      address,
		username:     username,
		password:     password,
		envelopeFrom: envelopeFrom,
		policy:       policy,
		send:         smtp.SendMail,
		now:          time.Now,
		logger:       logger,
	}
}

// WithSender replaces the transport, mainly for tests
func (m *SMTPMailer) WithSender(send SendFunc) *SMTPMailer {
	m.send = send
	return m
}

// CanDeliver parses to and checks it against the recipient policy
func (m *SMTPMailer) CanDeliver(to string) error {
	_, err := m.recipient(to)
	return err
}

func (m *SMTPMailer) recipient(to string) (*mail.Address, error) {
	recipient, err := mail.ParseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	if m.policy == nil || !m.policy.IsAllowed(recipient.Address) {
		m.logger.Warn("Refusing delivery to recipient outside allowlist",
			zap.String("recipient", recipient.Address))
		return nil, fmt.Errorf("%s: %w", recipient.Address, core.ErrRecipientNotAllowed)
	}

	return recipient, nil
}

// Deliver renders record as a training message and sends it to the recipient
func (m *SMTPMailer) Deliver(ctx context.Context, to string, record core.EmailRecord) error {
	recipient, err := m.recipient(to)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := m.render(recipient, record)

	var auth sasl.Client
	if m.username != "" {
		auth = sasl.NewPlainClient("", m.username, m.password)
	}

	if err := m.send(m.address, auth, m.envelopeFrom, []string{recipient.Address}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("failed to send training email: %w", err)
	}

	m.logger.Info("Delivered training email",
		zap.String("recipient", recipient.Address),
		zap.String("scenario", record.ID),
		zap.Int("bytes", len(msg)))

	return nil
}

func (m *SMTPMailer) render(to *mail.Address, record core.EmailRecord) []byte {
	from := mail.Address{Name: record.Sender, Address: m.envelopeFrom}

	domain := "phishplay.local"
	if at := strings.LastIndex(m.envelopeFrom, "@"); at >= 0 && at < len(m.envelopeFrom)-1 {
		domain = m.envelopeFrom[at+1:]
	}

	var buf bytes.Buffer
	writeHeader := func(name, value string) {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}

	writeHeader("From", from.String())
	writeHeader("To", to.String())
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", record.Subject))
	writeHeader("Date", m.now().Format(time.RFC1123Z))
	writeHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domain))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/plain; charset="utf-8"`)
	writeHeader("Content-Transfer-Encoding", "8bit")
	writeHeader(HeaderTraining, "true")
	writeHeader(HeaderScenario, record.ID)
	buf.WriteString("\r\n")

	body := strings.ReplaceAll(record.Body, "\r\n", "\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\r\n")
	}

	return buf.Bytes()
}
