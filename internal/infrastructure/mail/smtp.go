package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const defaultSMTPTimeout = 30 * time.Second

// TLS policies accepted in SMTPConfig.TLS
const (
	TLSMandatory     = "mandatory"
	TLSOpportunistic = "opportunistic"
	TLSNone          = "none"
)

// SMTPConfig configures the SMTP sender. Username and Password have no
// defaults and must be supplied.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string // defaults to Username
	TLS         string // mandatory (default), opportunistic or none
	Timeout     time.Duration
	Logger      *zap.Logger
}

// SMTPSender sends messages over authenticated SMTP with STARTTLS
type SMTPSender struct {
	config SMTPConfig
	policy gomail.TLSPolicy
	logger *zap.Logger
}

// NewSMTPSender validates the configuration and creates a sender
func NewSMTPSender(config SMTPConfig) (*SMTPSender, error) {
	if config.Host == "" {
		return nil, errors.New("smtp: host is required")
	}
	if config.Username == "" || config.Password == "" {
		return nil, errors.New("smtp: username and password are required")
	}
	if config.Port == 0 {
		config.Port = 587
	}
	if config.FromAddress == "" {
		config.FromAddress = config.Username
	}
	if config.Timeout == 0 {
		config.Timeout = defaultSMTPTimeout
	}

	var policy gomail.TLSPolicy
	switch strings.ToLower(config.TLS) {
	case "", TLSMandatory:
		policy = gomail.TLSMandatory
	case TLSOpportunistic:
		policy = gomail.TLSOpportunistic
	case TLSNone:
		policy = gomail.NoTLS
	default:
		return nil, errors.New("smtp: unknown TLS policy " + config.TLS)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SMTPSender{config: config, policy: policy, logger: logger}, nil
}

// FromAddress returns the mailbox messages are sent from
func (s *SMTPSender) FromAddress() string {
	return s.config.FromAddress
}

// Send builds the MIME message and delivers it in one SMTP session
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	m, err := s.build(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.config.Host,
		gomail.WithPort(s.config.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(s.config.Username),
		gomail.WithPassword(s.config.Password),
		gomail.WithTLSPolicy(s.policy),
		gomail.WithTimeout(s.config.Timeout),
	)
	if err != nil {
		return &DeliveryError{Op: "client", Err: err}
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Warn("smtp delivery failed",
			zap.String("host", s.config.Host),
			zap.String("to", msg.To),
			zap.Error(err))
		return &DeliveryError{Op: "send", Err: err}
	}

	s.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *SMTPSender) build(msg *Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.FromFormat(s.config.FromName, s.config.FromAddress); err != nil {
		return nil, &DeliveryError{Op: "compose", Err: err}
	}
	if err := m.To(msg.To); err != nil {
		return nil, &DeliveryError{Op: "compose", Err: err}
	}
	if len(msg.Bcc) > 0 {
		if err := m.Bcc(msg.Bcc...); err != nil {
			return nil, &DeliveryError{Op: "compose", Err: err}
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	for _, a := range msg.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		err := m.AttachReader(a.Filename, bytes.NewReader(a.Data),
			gomail.WithFileContentType(gomail.ContentType(contentType)))
		if err != nil {
			return nil, &DeliveryError{Op: "attach", Err: err}
		}
	}
	return m, nil
}

// Ensure SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)
