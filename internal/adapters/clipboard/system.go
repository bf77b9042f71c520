package clipboard

import (
	"github.com/atotto/clipboard"
)

// System writes to the OS clipboard (pbcopy, xclip/xsel/wl-copy, or the Windows API)
type System struct{}

// NewSystem creates a system clipboard adapter
func NewSystem() *System {
	return &System{}
}

// WriteAll replaces the clipboard contents with text
func (s *System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard backend was found on this machine
func Available() bool {
	return !clipboard.Unsupported
}
