package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
)

// Message is an outgoing HTML email
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Receipt describes an accepted message
type Receipt struct {
	MessageID string
	Provider  string
	SentAt    time.Time
	Mocked    bool
}

// Mailer sends messages through one transport
type Mailer interface {
	Send(ctx context.Context, msg *Message) (*Receipt, error)
	Provider() string
}

// New picks the transport described by cfg. With provider "auto" SES wins when
// a region is set, SMTP when credentials are set, and the console mock otherwise.
func New(ctx context.Context, cfg *config.MailConfig, log zerolog.Logger) (Mailer, error) {
	log = log.With().Str("component", "mailer").Logger()

	provider := cfg.Provider
	if provider == "" || provider == config.MailAuto {
		switch {
		case cfg.SESRegion != "":
			provider = config.MailSES
		case cfg.HasSMTPCredentials():
			provider = config.MailSMTP
		default:
			provider = config.MailConsole
		}
	}

	switch provider {
	case config.MailSES:
		m, err := NewSESMailer(ctx, cfg.SESRegion, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create SES mailer: %w", err)
		}
		return m, nil
	case config.MailSMTP:
		return NewSMTPMailer(cfg, log), nil
	case config.MailConsole:
		log.Warn().Msg("No mail credentials configured, outgoing mail is only logged")
		return NewConsoleMailer(log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", provider)
	}
}

func validateMessage(msg *Message) error {
	if msg.From == "" {
		return fmt.Errorf("sender address is required")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	for _, addr := range msg.To {
		if strings.ContainsAny(addr, "\r\n") {
			return fmt.Errorf("invalid recipient address %q", addr)
		}
	}
	if strings.ContainsAny(msg.Subject+msg.ReplyTo+msg.From, "\r\n") {
		return fmt.Errorf("header values must not contain line breaks")
	}
	return nil
}

func messageID(host string) string {
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%d@%s>", time.Now().UnixNano(), host)
}
