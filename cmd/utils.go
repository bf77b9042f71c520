package cmd

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
)

// GetPreferredEditor returns the editor command from env, or default
func GetPreferredEditor() string {
	if env := os.Getenv("VISUAL"); env != "" {
		return env
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// OpenFile opens a file using a custom viewer or the OS default application.
func OpenFile(path string, viewer string) error {
	var cmd *exec.Cmd

	if viewer != "" {
		// Use user-configured viewer (e.g. firefox, chromium)
		cmd = exec.Command(viewer, path)
	} else {
		// Fallback to OS default
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
	}

	// We use Start() to detach the process so dgrab can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		if viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", path, viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	return nil
}

// validateEndpoint checks that s is an absolute http(s) URL
func validateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.ErrNoEndpoint
	}

	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", s)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", s)
	}
	if strings.Contains(u.Host, "YOUR_") {
		return fmt.Errorf("invalid endpoint %q: replace the placeholder host with your deployment", s)
	}
	return nil
}
