package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
)

// SMTPMailer delivers through an SMTP relay with optional STARTTLS
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	useTLS   bool
	log      zerolog.Logger

	// dial is replaced in tests
	dial func(ctx context.Context, addr string) (*smtp.Client, error)
}

// NewSMTPMailer creates an SMTP transport from cfg
func NewSMTPMailer(cfg *config.MailConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.Username,
		password: cfg.Password,
		useTLS:   cfg.UseTLS,
		log:      log,
		dial:     dialSMTP,
	}
}

// Provider implements Mailer
func (m *SMTPMailer) Provider() string {
	return "smtp"
}

// Send implements Mailer
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	if err := validateMessage(msg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled before sending email: %w", err)
	}

	id := messageID(m.host)
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))

	client, err := m.dial(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if m.useTLS {
		if err = client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if m.username != "" && m.password != "" {
		if err = client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return nil, fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(msg.From); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range msg.To {
		if err = client.Rcpt(rcpt); err != nil {
			return nil, fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(buildMIME(msg, id)); err != nil {
		return nil, fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close data writer: %w", err)
	}

	if err = client.Quit(); err != nil {
		m.log.Warn().Err(err).Msg("SMTP QUIT failed after successful send")
	}

	m.log.Info().Str("message_id", id).Strs("to", msg.To).Msg("Email sent via SMTP")
	return &Receipt{MessageID: id, Provider: m.Provider(), SentAt: time.Now()}, nil
}

func dialSMTP(ctx context.Context, addr string) (*smtp.Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	host, _, _ := net.SplitHostPort(addr)
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return client, nil
}

func buildMIME(msg *Message, id string) []byte {
	var b strings.Builder

	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	if msg.ReplyTo != "" {
		b.WriteString("Reply-To: " + msg.ReplyTo + "\r\n")
	}
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Message-ID: " + id + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	return []byte(b.String())
}
