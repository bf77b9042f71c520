package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "dgrab"

// Dirs holds the on-disk locations used by dgrab
type Dirs struct {
	ConfigPath string // config.yaml
	CachePath  string // rendered galleries
	StatePath  string // logs
}

// New resolves XDG-compliant paths
func New() (*Dirs, error) {
	configDir, err := configRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}
	cacheDir, err := cacheRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to determine cache path: %w", err)
	}
	stateDir, err := stateRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to determine state path: %w", err)
	}

	return &Dirs{
		ConfigPath: filepath.Join(configDir, "config.yaml"),
		CachePath:  cacheDir,
		StatePath:  stateDir,
	}, nil
}

// configRoot follows XDG on Unix and uses AppData on Windows
func configRoot() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

func cacheRoot() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return filepath.Join(local, appName, "cache"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

func stateRoot() (string, error) {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return filepath.Join(local, appName, "state"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

// Initialize creates the directory structure if it doesn't exist
func (d *Dirs) Initialize() error {
	for _, dir := range []string{filepath.Dir(d.ConfigPath), d.CachePath, d.StatePath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ConfigExists reports whether a config file has been written
func (d *Dirs) ConfigExists() bool {
	info, err := os.Stat(d.ConfigPath)
	return err == nil && !info.IsDir()
}

// LogPath returns the path of the log file
func (d *Dirs) LogPath() string {
	return filepath.Join(d.StatePath, appName+".log")
}

// GetCachePath returns the full path for a cached file
func (d *Dirs) GetCachePath(filename string) string {
	return filepath.Join(d.CachePath, filename)
}

// CleanCache removes all files in the cache directory
func (d *Dirs) CleanCache() error {
	entries, err := os.ReadDir(d.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(d.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
