package domain

import (
	"fmt"
	"strings"
)

// Attachment represents a file reference returned by the upstream API
type Attachment struct {
	URL         string `json:"url"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// IsImage reports whether the attachment's content type is an image/* type
func (a Attachment) IsImage() bool {
	ct := strings.ToLower(strings.TrimSpace(a.ContentType))
	return strings.HasPrefix(ct, "image/")
}

// DisplayName returns the label shown for the attachment (filename, else URL)
func (a Attachment) DisplayName() string {
	if a.Filename != "" {
		return a.Filename
	}
	return a.URL
}

// AltText returns the thumbnail alt text for the attachment at index (0-based)
func (a Attachment) AltText(index int) string {
	if a.Filename != "" {
		return a.Filename
	}
	return fmt.Sprintf("Image %d", index+1)
}

// HumanSize formats Size for display. Returns "" when unknown.
func (a Attachment) HumanSize() string {
	if a.Size <= 0 {
		return ""
	}

	const unit = 1024
	if a.Size < unit {
		return fmt.Sprintf("%d B", a.Size)
	}

	div, exp := int64(unit), 0
	for n := a.Size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(a.Size)/float64(div), "KMGTPE"[exp])
}

// FilterImages keeps the image attachments that carry a URL, preserving order
func FilterImages(attachments []Attachment) []Attachment {
	images := make([]Attachment, 0, len(attachments))
	for _, a := range attachments {
		if !a.IsImage() || strings.TrimSpace(a.URL) == "" {
			continue
		}
		images = append(images, a)
	}
	return images
}

// URLs extracts the URL of every attachment, in order
func URLs(attachments []Attachment) []string {
	urls := make([]string, len(attachments))
	for i, a := range attachments {
		urls[i] = a.URL
	}
	return urls
}

// JoinURLs builds the bulk-copy text: one URL per line
func JoinURLs(urls []string) string {
	return strings.Join(urls, "\n")
}

// StatusSummary describes the outcome of a fetch that found n images
func StatusSummary(n int) string {
	switch {
	case n == 0:
		return NoImagesMessage
	case n == 1:
		return "Found 1 image. Select it to copy its URL, or copy all."
	default:
		return fmt.Sprintf("Found %d images. Select one to copy its URL, or copy all.", n)
	}
}

// NoImagesMessage is the placeholder shown when a message has no images
const NoImagesMessage = "No image attachments found for that message."
