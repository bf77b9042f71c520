package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
	"github.com/kamal-hamza/dgrab/internal/core/ports"
	"github.com/kamal-hamza/dgrab/internal/core/ports/mocks"
	"github.com/kamal-hamza/dgrab/internal/core/services"
	"github.com/kamal-hamza/dgrab/internal/logger"
	"github.com/kamal-hamza/dgrab/pkg/config"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := []string{"browse", "fetch", "init", "config", "doctor", "clean", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{cmdName})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", cmdName, err)
			}
			if cmd == nil {
				t.Fatalf("Command '%s' is nil", cmdName)
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", cmdName)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("Root command is nil")
	}

	if rootCmd.Use != "dgrab" {
		t.Errorf("Expected root command Use to be 'dgrab', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}

	if rootCmd.RunE == nil {
		t.Error("Root command should open the browser when run without a subcommand")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	commands := rootCmd.Commands()

	if len(commands) == 0 {
		t.Fatal("No commands registered")
	}

	for _, cmd := range commands {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Errorf("Command '%s' has no Short description", cmd.Name())
			}
		})
	}
}

// TestServiceInitialization verifies services can be initialized with mocks
func TestServiceInitialization(t *testing.T) {
	grab := services.NewGrabService(mocks.NewMockAttachmentSource(), mocks.NewMockClipboard(), mocks.NewMockNotifier())
	if grab == nil {
		t.Error("GrabService is nil")
	}

	if services.NewGalleryService() == nil {
		t.Error("GalleryService is nil")
	}
}

// TestSubcommands verifies specific subcommands exist
func TestSubcommands(t *testing.T) {
	tests := []struct {
		parent     string
		subcommand string
	}{
		{"config", "path"},
		{"config", "get"},
		{"config", "set"},
		{"config", "edit"},
	}

	for _, tt := range tests {
		t.Run(tt.parent+"_"+tt.subcommand, func(t *testing.T) {
			parentCmd, _, err := rootCmd.Find([]string{tt.parent})
			if err != nil {
				t.Fatalf("Parent command '%s' not found: %v", tt.parent, err)
			}

			found := false
			for _, cmd := range parentCmd.Commands() {
				if cmd.Name() == tt.subcommand {
					found = true
					break
				}
			}

			if !found {
				t.Errorf("Subcommand '%s' not found under '%s'", tt.subcommand, tt.parent)
			}
		})
	}
}

// TestFlagsExist verifies important flags are registered
func TestFlagsExist(t *testing.T) {
	tests := []struct {
		command  string
		flagName string
	}{
		{"fetch", "copy"},
		{"fetch", "all"},
		{"fetch", "json"},
		{"fetch", "urls"},
		{"fetch", "pick"},
		{"fetch", "gallery"},
		{"init", "force"},
		{"fetch", "endpoint"},
		{"browse", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"_"+tt.flagName, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.command})
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", tt.command, err)
			}

			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				flag = cmd.InheritedFlags().Lookup(tt.flagName)
			}
			if flag == nil {
				t.Errorf("Flag '--%s' not found on command '%s'", tt.flagName, tt.command)
			}
		})
	}
}

// TestCommandAliases verifies command aliases work
func TestCommandAliases(t *testing.T) {
	tests := []struct {
		alias   string
		command string
	}{
		{"get", "fetch"},
		{"ui", "browse"},
		{"v", "version"},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.alias})
			if err != nil {
				t.Fatalf("Alias '%s' not found: %v", tt.alias, err)
			}
			if cmd.Name() != tt.command {
				t.Errorf("Alias '%s' resolved to '%s', want '%s'", tt.alias, cmd.Name(), tt.command)
			}
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		valid    bool
	}{
		{"https://example.com/api/attachments", true},
		{"http://localhost:8787", true},
		{"  https://example.com  ", true},
		{"", false},
		{"example.com/api", false},
		{"ftp://example.com", false},
		{"https://", false},
		{"https://YOUR_DEPLOYMENT.vercel.app/api", false},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			err := validateEndpoint(tt.endpoint)
			if tt.valid && err != nil {
				t.Errorf("Expected %q to be valid, got %v", tt.endpoint, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected %q to be rejected", tt.endpoint)
			}
		})
	}

	if !errors.Is(validateEndpoint(""), domain.ErrNoEndpoint) {
		t.Error("Expected ErrNoEndpoint for an empty endpoint")
	}
}

// Command execution helpers

type testEnv struct {
	configDir string
	cacheDir  string
}

// setupTestEnv points every dgrab directory at a temp dir
func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	root := t.TempDir()
	env := testEnv{
		configDir: filepath.Join(root, "config"),
		cacheDir:  filepath.Join(root, "cache"),
	}

	t.Setenv("XDG_CONFIG_HOME", env.configDir)
	t.Setenv("XDG_CACHE_HOME", env.cacheDir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv(config.EndpointEnv, "")
	t.Cleanup(logger.Close)

	return env
}

func (e testEnv) configPath() string {
	return filepath.Join(e.configDir, "dgrab", "config.yaml")
}

func (e testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.configPath()), 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(e.configPath(), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

// resetFlags restores every flag to its default so runs don't leak into each other
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	err := runRoot(t, buf, buf, rootCmd.Execute, args...)
	return buf.String(), err
}

// executeCommandStreams keeps stdout and stderr apart
func executeCommandStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	err := runRoot(t, stdout, stderr, rootCmd.Execute, args...)
	return stdout.String(), stderr.String(), err
}

func runRoot(t *testing.T, stdout, stderr io.Writer, run func() error, args ...string) error {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	return run()
}

// useMockClipboard swaps the system clipboard for a mock for one test
func useMockClipboard(t *testing.T) *mocks.MockClipboard {
	t.Helper()

	clip := mocks.NewMockClipboard()
	prev := newClipboard
	newClipboard = func() ports.Clipboard { return clip }
	t.Cleanup(func() { newClipboard = prev })
	return clip
}

func newAttachmentServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MessageURL string `json:"messageUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MessageURL == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"messageUrl is required"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const attachmentsBody = `{"attachments":[
	{"url":"https://cdn/cat.png","filename":"cat.png","content_type":"image/png"},
	{"url":"https://cdn/notes.txt","filename":"notes.txt","content_type":"text/plain"},
	{"url":"https://cdn/dog.jpg","filename":"dog.jpg","content_type":"image/jpeg"}
]}`

func TestFetchCommand_URLs(t *testing.T) {
	setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusOK, attachmentsBody)

	out, err := executeCommand(t, "fetch", browseTestLink, "--urls", "--endpoint", srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if out != "https://cdn/cat.png\nhttps://cdn/dog.jpg\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestFetchCommand_Table(t *testing.T) {
	env := setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusOK, attachmentsBody)
	env.writeConfig(t, "endpoint: "+srv.URL+"\n")

	out, err := executeCommand(t, "fetch", browseTestLink)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	for _, want := range []string{"cat.png", "dog.jpg", domain.StatusSummary(2), "1 non-image"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "https://cdn/notes.txt") {
		t.Error("Non-image attachment should not be listed")
	}
}

func TestFetchCommand_JSON(t *testing.T) {
	setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusOK, attachmentsBody)

	out, err := executeCommand(t, "fetch", browseTestLink, "--json", "-e", srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	var images []domain.Attachment
	if err := json.Unmarshal([]byte(out), &images); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, out)
	}
	if len(images) != 2 || images[1].URL != "https://cdn/dog.jpg" {
		t.Errorf("Unexpected images %+v", images)
	}
}

func TestFetchCommand_JSONWithCopyAllKeepsStdoutClean(t *testing.T) {
	env := setupTestEnv(t)
	env.writeConfig(t, "notify: false\n")
	clip := useMockClipboard(t)
	srv := newAttachmentServer(t, http.StatusOK, attachmentsBody)

	stdout, stderr, err := executeCommandStreams(t, "fetch", browseTestLink, "--json", "--all", "-e", srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	var images []domain.Attachment
	if err := json.Unmarshal([]byte(stdout), &images); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if !strings.Contains(stderr, services.MsgCopiedAll) {
		t.Errorf("Expected copy confirmation on stderr, got %q", stderr)
	}
	if clip.Text() != "https://cdn/cat.png\nhttps://cdn/dog.jpg" {
		t.Errorf("Unexpected clipboard %q", clip.Text())
	}
}

func TestFetchCommand_URLsWithCopyKeepsStdoutClean(t *testing.T) {
	env := setupTestEnv(t)
	env.writeConfig(t, "notify: false\n")
	clip := useMockClipboard(t)
	srv := newAttachmentServer(t, http.StatusOK, attachmentsBody)

	stdout, stderr, err := executeCommandStreams(t, "fetch", browseTestLink, "--urls", "--copy", "2", "-e", srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if stdout != "https://cdn/cat.png\nhttps://cdn/dog.jpg\n" {
		t.Errorf("Unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, services.MsgCopiedOne) {
		t.Errorf("Expected copy confirmation on stderr, got %q", stderr)
	}
	if clip.Text() != "https://cdn/dog.jpg" {
		t.Errorf("Unexpected clipboard %q", clip.Text())
	}
}

func TestExecute_ClosesLogOnError(t *testing.T) {
	setupTestEnv(t)

	err := runRoot(t, io.Discard, io.Discard, execute, "fetch", browseTestLink)
	if !errors.Is(err, domain.ErrNoEndpoint) {
		t.Fatalf("Expected ErrNoEndpoint, got %v", err)
	}
	if logger.Path() != "" {
		t.Errorf("Expected log file closed, still open at %s", logger.Path())
	}
}

func TestFetchCommand_NoImages(t *testing.T) {
	setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusOK, `{"attachments":[{"url":"https://cdn/a.pdf","content_type":"application/pdf"}]}`)

	out, err := executeCommand(t, "fetch", browseTestLink, "-e", srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.Contains(out, domain.NoImagesMessage) {
		t.Errorf("Expected placeholder in output:\n%s", out)
	}

	_, err = executeCommand(t, "fetch", browseTestLink, "-e", srv.URL, "--all")
	if !errors.Is(err, domain.ErrNoImages) {
		t.Errorf("Expected ErrNoImages for --all, got %v", err)
	}
}

func TestFetchCommand_APIError(t *testing.T) {
	setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusNotFound, `{"error":"Unknown Message"}`)

	_, err := executeCommand(t, "fetch", browseTestLink, "-e", srv.URL)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if domain.UserMessage(err) != "Unknown Message" {
		t.Errorf("Expected API error message, got %q", domain.UserMessage(err))
	}
}

func TestFetchCommand_APIErrorFallback(t *testing.T) {
	setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusInternalServerError, `not json`)

	_, err := executeCommand(t, "fetch", browseTestLink, "-e", srv.URL)
	if domain.UserMessage(err) != domain.FallbackAPIMessage {
		t.Errorf("Expected fallback message, got %q", domain.UserMessage(err))
	}
}

func TestFetchCommand_NoEndpoint(t *testing.T) {
	setupTestEnv(t)

	_, err := executeCommand(t, "fetch", browseTestLink)
	if !errors.Is(err, domain.ErrNoEndpoint) {
		t.Errorf("Expected ErrNoEndpoint, got %v", err)
	}
}

func TestFetchCommand_CopyOutOfRange(t *testing.T) {
	setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusOK, attachmentsBody)

	_, err := executeCommand(t, "fetch", browseTestLink, "-e", srv.URL, "--copy", "5")
	if !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestFetchCommand_ExclusiveFlags(t *testing.T) {
	setupTestEnv(t)

	if _, err := executeCommand(t, "fetch", browseTestLink, "--json", "--urls"); err == nil {
		t.Error("Expected --json and --urls to be mutually exclusive")
	}
}

func TestFetchCommand_Gallery(t *testing.T) {
	env := setupTestEnv(t)
	srv := newAttachmentServer(t, http.StatusOK, attachmentsBody)
	env.writeConfig(t, "endpoint: "+srv.URL+"\nopen_gallery: false\n")

	out, err := executeCommand(t, "fetch", browseTestLink, "--urls", "--gallery")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	path := filepath.Join(env.cacheDir, "dgrab", services.GalleryFilename)
	if !strings.Contains(out, path) {
		t.Errorf("Expected gallery path in output:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Gallery not written: %v", err)
	}
	if strings.Count(string(data), `class="attachment-item"`) != 2 {
		t.Error("Expected two gallery cards")
	}
}

func TestInitCommand_WritesConfig(t *testing.T) {
	env := setupTestEnv(t)

	out, err := executeCommand(t, "init", "--endpoint", "https://example.com/api")
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	cfg, err := config.Load(env.configPath())
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	if cfg.Endpoint != "https://example.com/api" {
		t.Errorf("Expected endpoint to be saved, got %q", cfg.Endpoint)
	}

	// A second run keeps the existing file
	out, err = executeCommand(t, "init", "--endpoint", "https://other.example.com")
	if err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("Expected already-exists warning:\n%s", out)
	}
	cfg, _ = config.Load(env.configPath())
	if cfg.Endpoint != "https://example.com/api" {
		t.Error("Config should not be overwritten without --force")
	}

	if _, err := executeCommand(t, "init", "--force", "--endpoint", "https://other.example.com"); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	cfg, _ = config.Load(env.configPath())
	if cfg.Endpoint != "https://other.example.com" {
		t.Errorf("Expected --force to overwrite, got %q", cfg.Endpoint)
	}
}

func TestInitCommand_RejectsBadEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := executeCommand(t, "init", "--endpoint", "not-a-url"); err == nil {
		t.Error("Expected invalid endpoint to be rejected")
	}
	if _, err := os.Stat(env.configPath()); !os.IsNotExist(err) {
		t.Error("Config should not be written for an invalid endpoint")
	}
}

func TestConfigSetAndGet(t *testing.T) {
	env := setupTestEnv(t)

	if _, err := executeCommand(t, "config", "set", "endpoint", "https://example.com/api"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, err := executeCommand(t, "config", "set", "notify", "false"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	out, err := executeCommand(t, "config", "get", "endpoint")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out) != "https://example.com/api" {
		t.Errorf("Unexpected endpoint %q", out)
	}

	cfg, _ := config.Load(env.configPath())
	if cfg.Notify {
		t.Error("Expected notify=false to be saved")
	}

	if _, err := executeCommand(t, "config", "set", "endpoint", "nope"); err == nil {
		t.Error("Expected invalid endpoint to be rejected")
	}
	if _, err := executeCommand(t, "config", "set", "bogus", "1"); err == nil {
		t.Error("Expected unknown key to be rejected")
	}
}

func TestConfigSet_DoesNotPersistEnvEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	env.writeConfig(t, "endpoint: https://file.example.com\n")
	t.Setenv(config.EndpointEnv, "https://env.example.com")

	if _, err := executeCommand(t, "config", "set", "toast_millis", "900"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	cfg, _ := config.LoadFile(env.configPath())
	if cfg.Endpoint != "https://file.example.com" || cfg.ToastMillis != 900 {
		t.Errorf("Unexpected saved config %+v", cfg)
	}
}

func TestConfigShowAndPath(t *testing.T) {
	env := setupTestEnv(t)
	env.writeConfig(t, "endpoint: https://example.com/api\n")

	out, err := executeCommand(t, "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	for _, key := range config.Keys() {
		if !strings.Contains(out, key) {
			t.Errorf("Expected key %q in output", key)
		}
	}

	out, err = executeCommand(t, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if strings.TrimSpace(out) != env.configPath() {
		t.Errorf("Expected %q, got %q", env.configPath(), out)
	}
}

func TestCleanCommand(t *testing.T) {
	env := setupTestEnv(t)
	cache := filepath.Join(env.cacheDir, "dgrab")
	if err := os.MkdirAll(cache, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(cache, services.GalleryFilename)
	if err := os.WriteFile(stale, []byte("<html>"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "clean"); err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Expected cached gallery to be removed")
	}
}

func TestDoctorCommand(t *testing.T) {
	env := setupTestEnv(t)
	env.writeConfig(t, "endpoint: https://example.com/api\n")

	out, err := executeCommand(t, "doctor")
	if err != nil {
		t.Fatalf("doctor failed: %v", err)
	}
	for _, check := range []string{"Configuration File", "API Endpoint", "Clipboard", "Cache Directory", "Log File"} {
		if !strings.Contains(out, check) {
			t.Errorf("Expected check %q in output", check)
		}
	}
}

// TestVersionCommand verifies version command output
func TestVersionCommand(t *testing.T) {
	setupTestEnv(t)

	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("Expected version %q in output:\n%s", Version, out)
	}
}
