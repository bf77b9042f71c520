package ports

import (
	"context"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
)

// AttachmentSource defines the port for looking up a message's attachments
type AttachmentSource interface {
	// FetchAttachments returns every attachment of the linked message, in API order.
	// Non-OK responses are reported as *domain.APIError.
	FetchAttachments(ctx context.Context, link string) ([]domain.Attachment, error)
}

// Clipboard supports copy-to-clipboard
type Clipboard interface {
	WriteAll(text string) error
}

// Notifier shows transient notifications ("Image URL copied")
type Notifier interface {
	Notify(title, message string) error
}
