package mocks

import (
	"context"
	"sync"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
)

// MockAttachmentSource is a mock implementation of the AttachmentSource interface for testing
type MockAttachmentSource struct {
	mu        sync.Mutex
	responses map[string][]domain.Attachment
	errs      map[string]error
	calls     []string

	// Block, when set, is received from before answering; lets tests hold a fetch in flight
	Block chan struct{}
	// Started is signalled once a call has begun (only when non-nil)
	Started chan struct{}
}

// NewMockAttachmentSource creates a new mock attachment source
func NewMockAttachmentSource() *MockAttachmentSource {
	return &MockAttachmentSource{
		responses: make(map[string][]domain.Attachment),
		errs:      make(map[string]error),
	}
}

// SetResponse registers the attachments returned for link
func (m *MockAttachmentSource) SetResponse(link string, attachments []domain.Attachment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[link] = attachments
	delete(m.errs, link)
}

// SetError registers an error returned for link
func (m *MockAttachmentSource) SetError(link string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[link] = err
}

// FetchAttachments returns the registered response for link
func (m *MockAttachmentSource) FetchAttachments(ctx context.Context, link string) ([]domain.Attachment, error) {
	m.mu.Lock()
	m.calls = append(m.calls, link)
	block, started := m.Block, m.Started
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.errs[link]; ok {
		return nil, err
	}
	return m.responses[link], nil
}

// Calls returns the links requested so far
func (m *MockAttachmentSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockClipboard is an in-memory clipboard
type MockClipboard struct {
	mu     sync.Mutex
	text   string
	writes int
	Err    error
}

// NewMockClipboard creates a new mock clipboard
func NewMockClipboard() *MockClipboard {
	return &MockClipboard{}
}

// WriteAll stores text unless Err is set
func (m *MockClipboard) WriteAll(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.text = text
	m.writes++
	return nil
}

// Text returns the last copied text
func (m *MockClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns the number of successful writes
func (m *MockClipboard) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Notification is one recorded notification
type Notification struct {
	Title   string
	Message string
}

// MockNotifier records notifications
type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification
	Err  error
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the notification and returns Err
func (m *MockNotifier) Notify(title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Notification{Title: title, Message: message})
	return m.Err
}

// Sent returns all recorded notifications
func (m *MockNotifier) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.sent...)
}

// Last returns the most recent notification message, or ""
func (m *MockNotifier) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Message
}
