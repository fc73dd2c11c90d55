package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadsite-api/internal/mailer"
)

// MockMailer records messages instead of sending them
type MockMailer struct {
	mu       sync.Mutex
	Sent     []*mailer.Message
	SendErr  error
	Mocked   bool
	provider string
}

// Verify interface compliance
var _ mailer.Mailer = (*MockMailer)(nil)

func NewMockMailer() *MockMailer {
	return &MockMailer{provider: "mock"}
}

func (m *MockMailer) Provider() string {
	return m.provider
}

func (m *MockMailer) Send(ctx context.Context, msg *mailer.Message) (*mailer.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.Sent = append(m.Sent, msg)
	return &mailer.Receipt{
		MessageID: fmt.Sprintf("mock-%d", len(m.Sent)),
		Provider:  m.provider,
		SentAt:    time.Now(),
		Mocked:    m.Mocked,
	}, nil
}

// Last returns the most recent message, or nil
func (m *MockMailer) Last() *mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	return m.Sent[len(m.Sent)-1]
}
