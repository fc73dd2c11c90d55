package mailer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleMailer logs messages instead of delivering them. It stands in for a
// real transport when no credentials are configured.
type ConsoleMailer struct {
	log zerolog.Logger
}

// NewConsoleMailer creates the logging mock transport
func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

// Provider implements Mailer
func (m *ConsoleMailer) Provider() string {
	return "console"
}

// Send implements Mailer
func (m *ConsoleMailer) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	id := "mock-" + messageID("console")
	m.log.Info().
		Str("message_id", id).
		Str("from", msg.From).
		Strs("to", msg.To).
		Str("reply_to", msg.ReplyTo).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.HTML)).
		Msg("Mock email sent")
	m.log.Debug().Str("message_id", id).Str("html", msg.HTML).Msg("Mock email body")

	return &Receipt{MessageID: id, Provider: m.Provider(), SentAt: time.Now(), Mocked: true}, nil
}
