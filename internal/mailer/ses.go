package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/rs/zerolog"
)

// SESAPI is the subset of the SES client used here
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer delivers through Amazon SES
type SESMailer struct {
	client SESAPI
	log    zerolog.Logger
}

// NewSESMailer loads the default AWS credential chain for region
func NewSESMailer(ctx context.Context, region string, log zerolog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSESMailerWithClient(ses.NewFromConfig(cfg), log), nil
}

// NewSESMailerWithClient wraps an existing client
func NewSESMailerWithClient(client SESAPI, log zerolog.Logger) *SESMailer {
	return &SESMailer{client: client, log: log}
}

// Provider implements Mailer
func (m *SESMailer) Provider() string {
	return "ses"
}

// Send implements Mailer
func (m *SESMailer) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(msg.From),
		Destination: &types.Destination{ToAddresses: msg.To},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}

	out, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("SES send failed: %w", err)
	}

	id := aws.ToString(out.MessageId)
	m.log.Info().Str("message_id", id).Strs("to", msg.To).Msg("Email sent via SES")
	return &Receipt{MessageID: id, Provider: m.Provider(), SentAt: time.Now()}, nil
}
