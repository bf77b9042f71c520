package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
	"github.com/kamal-hamza/dgrab/internal/core/ports"
	"github.com/kamal-hamza/dgrab/internal/logger"
)

// Notification texts
const (
	NotifyTitle       = "dgrab"
	MsgCopiedOne      = "Image URL copied"
	MsgCopiedAll      = "All image URLs copied"
	MsgCopyFailed     = "Failed to copy"
	MsgLoading        = "Loading attachments..."
	MsgFetching       = "Fetching from Discord..."
	MsgNoDataOnError  = "No data. Check the status message."
	MsgNetworkFailure = "Network error. Check the log."
)

// GrabResult is the outcome of one fetch cycle
type GrabResult struct {
	Link    domain.MessageLink
	Images  []domain.Attachment
	Total   int // attachments returned by the API
	Skipped int // non-image attachments filtered out
	Status  string
}

// GrabService runs the fetch, filter and copy cycle and holds the current image list.
// At most one fetch is in flight; the list is replaced wholesale by each fetch.
type GrabService struct {
	source    ports.AttachmentSource
	clipboard ports.Clipboard
	notifier  ports.Notifier

	mu      sync.Mutex
	busy    bool
	current []domain.Attachment
}

func NewGrabService(source ports.AttachmentSource, clip ports.Clipboard, notifier ports.Notifier) *GrabService {
	return &GrabService{
		source:    source,
		clipboard: clip,
		notifier:  notifier,
	}
}

// Fetch looks up the message's attachments and keeps the images
func (s *GrabService) Fetch(ctx context.Context, raw string) (*GrabResult, error) {
	link, err := domain.ParseMessageLink(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, domain.ErrBusy
	}
	s.busy = true
	source := s.source
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	log := logger.ComponentLogger("grab")
	if link.IsDiscord() {
		log.Info("Fetching message", "guild", link.GuildID, "channel", link.ChannelID, "message", link.MessageID, "dm", link.IsDirectMessage())
	} else {
		log.Info("Fetching link", "link", link.Raw)
	}

	attachments, err := source.FetchAttachments(ctx, link.Raw)
	if err != nil {
		s.setCurrent(nil)
		log.Warn("Fetch failed", "error", err)
		return nil, err
	}

	images := domain.FilterImages(attachments)
	s.setCurrent(images)

	log.Info("Fetch complete", "total", len(attachments), "images", len(images))

	return &GrabResult{
		Link:    link,
		Images:  images,
		Total:   len(attachments),
		Skipped: len(attachments) - len(images),
		Status:  domain.StatusSummary(len(images)),
	}, nil
}

// SetSource swaps the attachment source; a fetch already in flight keeps the old one
func (s *GrabService) SetSource(source ports.AttachmentSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Busy reports whether a fetch is in flight
func (s *GrabService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Current returns a copy of the current image list
func (s *GrabService) Current() []domain.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Attachment(nil), s.current...)
}

// CopyOne copies the URL of the image at index (0-based) and returns it
func (s *GrabService) CopyOne(index int) (string, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.current) {
		n := len(s.current)
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %d (have %d)", domain.ErrIndexOutOfRange, index+1, n)
	}
	url := s.current[index].URL
	s.mu.Unlock()

	if err := s.copy(url, MsgCopiedOne); err != nil {
		return "", err
	}
	return url, nil
}

// CopyAll copies every current URL, one per line, and returns the copied text
func (s *GrabService) CopyAll() (string, error) {
	s.mu.Lock()
	urls := domain.URLs(s.current)
	s.mu.Unlock()

	if len(urls) == 0 {
		return "", domain.ErrNoImages
	}

	text := domain.JoinURLs(urls)
	if err := s.copy(text, MsgCopiedAll); err != nil {
		return "", err
	}
	return text, nil
}

func (s *GrabService) copy(text, success string) error {
	if err := s.clipboard.WriteAll(text); err != nil {
		s.notify(MsgCopyFailed)
		return fmt.Errorf("%w: %v", domain.ErrClipboardFailure, err)
	}
	s.notify(success)
	return nil
}

// notify never fails the caller
func (s *GrabService) notify(message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(NotifyTitle, message); err != nil {
		logger.ComponentLogger("grab").Debug("Notification failed", "error", err)
	}
}

func (s *GrabService) setCurrent(images []domain.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = images
}
