package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadsite-api/internal/config"
	"github.com/leadsite-api/internal/mailer"
	"github.com/leadsite-api/internal/metrics"
	"github.com/leadsite-api/internal/models"
	"github.com/leadsite-api/internal/validation"
)

// offerService is the concrete implementation of OfferService
type offerService struct {
	mailer  mailer.Mailer
	cfg     *config.MailConfig
	metrics metrics.Provider
	log     zerolog.Logger
}

func newOfferService(m mailer.Mailer, cfg *config.MailConfig, mp metrics.Provider, log zerolog.Logger) *offerService {
	return &offerService{
		mailer:  m,
		cfg:     cfg,
		metrics: mp,
		log:     log.With().Str("service", "offer").Logger(),
	}
}

// SubmitOffer validates an offer and mails it to the site owner
func (s *offerService) SubmitOffer(ctx context.Context, offer *models.OfferSubmission) (*models.SubmissionReceipt, error) {
	if err := validation.ValidateOffer(offer); err != nil {
		s.metrics.IncSubmissions("offer", "invalid")
		return nil, err
	}

	view := &emailView{
		Title: "New Property Offer Request",
		Rows: rows(
			"Name", offer.Name,
			"Email", offer.Email,
			"Phone", offer.Phone,
			"Address", offer.Address,
			"City", offer.City,
			"State", offer.State,
			"ZIP", offer.Zip,
			"Property Type", offer.PropertyType,
			"Condition", offer.PropertyCondition,
			"Timeline", offer.Timeline,
			"Asking Price", offer.AskingPrice,
		),
		Message: offer.Message,
	}

	subject := "New Property Offer - " + strings.TrimSpace(offer.Address)
	return s.send(ctx, "offer", subject, offer.Email, view)
}

// SubmitContact validates a contact message and mails it to the site owner
func (s *offerService) SubmitContact(ctx context.Context, contact *models.ContactSubmission) (*models.SubmissionReceipt, error) {
	if err := validation.ValidateContact(contact); err != nil {
		s.metrics.IncSubmissions("contact", "invalid")
		return nil, err
	}

	view := &emailView{
		Title: "New Contact Message",
		Rows: rows(
			"Name", contact.Name,
			"Email", contact.Email,
			"Phone", contact.Phone,
			"Subject", contact.Subject,
		),
		Message: contact.Message,
	}

	subject := "New Contact Message from " + strings.TrimSpace(contact.Name)
	if topic := strings.TrimSpace(contact.Subject); topic != "" {
		subject += ": " + topic
	}
	return s.send(ctx, "contact", subject, contact.Email, view)
}

func (s *offerService) send(ctx context.Context, kind, subject, replyTo string, view *emailView) (*models.SubmissionReceipt, error) {
	view.SubmittedAt = time.Now().UTC().Format(time.RFC1123)

	var body bytes.Buffer
	if err := submissionTemplate.Execute(&body, view); err != nil {
		s.metrics.IncSubmissions(kind, "failed")
		return nil, fmt.Errorf("failed to render %s email: %w", kind, err)
	}

	if tag := strings.TrimSpace(s.cfg.SubjectTag); tag != "" {
		subject = "[" + tag + "] " + subject
	}

	msg := &mailer.Message{
		From:    s.cfg.From,
		To:      s.cfg.Recipients(),
		ReplyTo: sanitizeHeader(replyTo),
		Subject: sanitizeHeader(subject),
		HTML:    body.String(),
	}
	if len(msg.To) == 0 {
		msg.To = []string{s.cfg.From}
	}

	receipt, err := s.mailer.Send(ctx, msg)
	if err != nil {
		s.metrics.IncSubmissions(kind, "failed")
		s.log.Error().Err(err).Str("kind", kind).Str("provider", s.mailer.Provider()).Msg("Failed to send submission email")
		return nil, fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	outcome := "sent"
	if receipt.Mocked {
		outcome = "mocked"
	}
	s.metrics.IncSubmissions(kind, outcome)
	s.log.Info().
		Str("kind", kind).
		Str("provider", receipt.Provider).
		Str("message_id", receipt.MessageID).
		Bool("mocked", receipt.Mocked).
		Msg("Submission email sent")

	return &models.SubmissionReceipt{
		MessageID: receipt.MessageID,
		Provider:  receipt.Provider,
		Mocked:    receipt.Mocked,
	}, nil
}

// sanitizeHeader folds line breaks a visitor typed into a single line
func sanitizeHeader(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
