package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
	"github.com/kamal-hamza/dgrab/internal/core/services"
	"github.com/kamal-hamza/dgrab/internal/logger"
	"github.com/kamal-hamza/dgrab/pkg/config"
	"github.com/kamal-hamza/dgrab/pkg/ui"
)

// browseCmd represents the browse command
var browseCmd = &cobra.Command{
	Use:     "browse [message-link]",
	Aliases: []string{"ui"},
	Short:   "Open the interactive image browser (default command)",
	Long: `Open a full-screen browser for a message's image attachments.

Paste a message link into the input and press Enter. The images found in the
message are listed below; select one to copy its URL or copy them all at once.

Keyboard Shortcuts:
  Input:
    Enter       Fetch attachments
    Tab         Move to the image list

  List:
    ↑/k ↓/j     Move selection
    Enter/c     Copy the selected image URL
    a           Copy all image URLs (one per line)
    g           Open the thumbnail gallery in the browser
    Tab or /    Back to the input

  General:
    Esc/q       Quit
    Ctrl+C      Force quit

Clicking an image row with the mouse copies its URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

// Reloads triggered by editors writing the config are collapsed within this window
const configReloadDebounce = 250 * time.Millisecond

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(getContext())
	defer cancel()

	m := newBrowseModel(ctx, browseOptions{
		service:       grabService,
		gallery:       galleryService,
		galleryPath:   appDirs.GetCachePath(services.GalleryFilename),
		viewer:        appConfig.GalleryViewer,
		endpoint:      resolveEndpoint(appConfig),
		toastDuration: appConfig.ToastDuration(),
		openFile:      OpenFile,
	})
	if len(args) > 0 {
		m.input.SetValue(args[0])
		m.autoFetch = true
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	go func() {
		err := config.Watch(ctx, appDirs.ConfigPath, configReloadDebounce, func(cfg *config.Config, err error) {
			p.Send(configReloadedMsg{cfg: cfg, err: err})
		})
		if err != nil {
			logger.ComponentLogger("browse").Debug("Config watch disabled", "error", err)
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running browser: %w", err)
	}

	return nil
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Screen rows above the list: header, bordered input (3), status, blank
const listTop = 6

// Rows below the list: blank, help
const footerHeight = 2

const initialPlaceholder = "Paste a message link above and press Enter."

type browseOptions struct {
	service       *services.GrabService
	gallery       *services.GalleryService
	galleryPath   string
	viewer        string
	endpoint      string
	toastDuration time.Duration
	openFile      func(path, viewer string) error
}

type browseModel struct {
	ctx     context.Context
	svc     *services.GrabService
	gallery *services.GalleryService

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    browseKeyMap
	focus   focusArea

	link        string
	images      []domain.Attachment
	cursor      int
	offset      int
	loading     bool
	autoFetch   bool
	status      string
	statusErr   bool
	placeholder string

	toast         string
	toastErr      bool
	toastSeq      int
	toastDuration time.Duration

	endpoint    string
	galleryPath string
	viewer      string
	openFile    func(path, viewer string) error

	width  int
	height int
}

type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Fetch   key.Binding
	Copy    key.Binding
	CopyAll key.Binding
	Gallery key.Binding
	Focus   key.Binding
	Quit    key.Binding
	Force   key.Binding
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fetch, k.Up, k.Down, k.Copy, k.CopyAll, k.Gallery, k.Focus, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fetch, k.Focus},
		{k.Up, k.Down},
		{k.Copy, k.CopyAll, k.Gallery},
		{k.Quit, k.Force},
	}
}

var browseKeys = browseKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Fetch: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "fetch"),
	),
	Copy: key.NewBinding(
		key.WithKeys("enter", "c"),
		key.WithHelp("enter/c", "copy URL"),
	),
	CopyAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "copy all"),
	),
	Gallery: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "gallery"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab", "/"),
		key.WithHelp("tab", "switch"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc/q", "quit"),
	),
	Force: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
}

// Messages
type startFetchMsg struct{}

type fetchResultMsg struct {
	result *services.GrabResult
	err    error
}

type copyResultMsg struct {
	text string
	all  bool
	err  error
}

type toastExpiredMsg struct {
	seq int
}

type configReloadedMsg struct {
	cfg *config.Config
	err error
}

type galleryOpenedMsg struct {
	path string
	err  error
}

func newBrowseModel(ctx context.Context, opts browseOptions) browseModel {
	ti := textinput.New()
	ti.Placeholder = "https://discord.com/channels/..."
	ti.Prompt = ui.IconLink + " "
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = ui.StylePrimary

	toastDuration := opts.toastDuration
	if toastDuration <= 0 {
		toastDuration = config.DefaultConfig().ToastDuration()
	}

	openFile := opts.openFile
	if openFile == nil {
		openFile = OpenFile
	}

	m := browseModel{
		ctx:           ctx,
		svc:           opts.service,
		gallery:       opts.gallery,
		input:         ti,
		spinner:       sp,
		help:          help.New(),
		keys:          browseKeys,
		focus:         focusInput,
		placeholder:   initialPlaceholder,
		toastDuration: toastDuration,
		endpoint:      opts.endpoint,
		galleryPath:   opts.galleryPath,
		viewer:        opts.viewer,
		openFile:      openFile,
	}
	m.syncKeys()
	return m
}

func (m browseModel) Init() tea.Cmd {
	if m.autoFetch {
		return tea.Batch(textinput.Blink, func() tea.Msg { return startFetchMsg{} })
	}
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		m.adjustViewport()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Force) {
			return m, tea.Quit
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startFetchMsg:
		return m.startFetch()

	case fetchResultMsg:
		return m.applyFetchResult(msg)

	case copyResultMsg:
		if msg.err != nil {
			return m, m.showToast(domain.UserMessage(msg.err), true)
		}
		text := services.MsgCopiedOne
		if msg.all {
			text = fmt.Sprintf("%s (%d)", services.MsgCopiedAll, len(m.images))
		}
		return m, m.showToast(text, false)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil

	case galleryOpenedMsg:
		if msg.err != nil {
			return m, m.showToast(msg.err.Error(), true)
		}
		return m, m.showToast("Gallery opened", false)

	case configReloadedMsg:
		return m.applyConfig(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browseModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Fetch):
		return m.startFetch()

	case msg.Type == tea.KeyTab:
		if len(m.images) > 0 {
			m.setFocus(focusList)
		}
		return m, nil

	case msg.Type == tea.KeyEsc:
		if len(m.images) > 0 {
			m.setFocus(focusList)
			return m, nil
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.setFocus(focusInput)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.images)-1 {
			m.cursor++
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Copy):
		if m.keys.Copy.Enabled() {
			return m, m.copyOneCmd(m.cursor)
		}

	case key.Matches(msg, m.keys.CopyAll):
		if m.keys.CopyAll.Enabled() {
			return m, m.copyAllCmd()
		}

	case key.Matches(msg, m.keys.Gallery):
		if m.keys.Gallery.Enabled() {
			return m, m.openGalleryCmd()
		}
	}

	return m, nil
}

func (m browseModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if m.cursor < len(m.images)-1 {
			m.cursor++
			m.adjustViewport()
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	// Input box
	if msg.Y >= 1 && msg.Y < 4 {
		m.setFocus(focusInput)
		return m, textinput.Blink
	}

	idx, ok := m.itemAt(msg.Y)
	if !ok || m.loading {
		return m, nil
	}

	m.cursor = idx
	m.setFocus(focusList)
	return m, m.copyOneCmd(idx)
}

// itemAt maps a screen row to an image index
func (m browseModel) itemAt(y int) (int, bool) {
	row := y - listTop
	if row < 0 || row >= m.listHeight() {
		return 0, false
	}
	idx := m.offset + row
	if idx >= len(m.images) {
		return 0, false
	}
	return idx, true
}

func (m browseModel) startFetch() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		m.status = domain.UserMessage(domain.ErrEmptyLink)
		m.statusErr = true
		return m, nil
	}

	m.loading = true
	m.link = raw
	m.images = nil
	m.cursor = 0
	m.offset = 0
	m.status = services.MsgFetching
	m.statusErr = false
	m.placeholder = services.MsgLoading
	m.syncKeys()

	return m, tea.Batch(m.spinner.Tick, m.fetchCmd(raw))
}

func (m browseModel) applyFetchResult(msg fetchResultMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.cursor = 0
	m.offset = 0

	if msg.err != nil {
		m.images = nil
		m.status = domain.UserMessage(msg.err)
		m.statusErr = true
		if errors.Is(msg.err, domain.ErrNetwork) {
			m.placeholder = services.MsgNetworkFailure
		} else {
			m.placeholder = services.MsgNoDataOnError
		}
		m.syncKeys()
		return m, nil
	}

	m.images = msg.result.Images
	m.status = msg.result.Status
	m.statusErr = false
	m.placeholder = domain.NoImagesMessage
	if len(m.images) > 0 {
		m.setFocus(focusList)
	}
	m.syncKeys()
	return m, nil
}

func (m browseModel) applyConfig(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logger.ComponentLogger("browse").Warn("Config reload failed", "error", msg.err)
		return m, m.showToast("Config reload failed", true)
	}

	endpoint := resolveEndpoint(msg.cfg)
	m.svc.SetSource(newAttachmentSource(msg.cfg))
	m.viewer = msg.cfg.GalleryViewer
	if d := msg.cfg.ToastDuration(); d > 0 {
		m.toastDuration = d
	}

	if endpoint == m.endpoint {
		return m, nil
	}
	m.endpoint = endpoint
	logger.ComponentLogger("browse").Info("Endpoint reloaded", "endpoint", endpoint)
	return m, m.showToast("Endpoint updated", false)
}

// syncKeys enables bindings that apply to the current state
func (m *browseModel) syncKeys() {
	hasImages := len(m.images) > 0 && !m.loading
	m.keys.Fetch.SetEnabled(!m.loading && m.focus == focusInput)
	m.keys.Copy.SetEnabled(hasImages && m.focus == focusList)
	m.keys.CopyAll.SetEnabled(hasImages)
	m.keys.Gallery.SetEnabled(hasImages && m.gallery != nil)
	m.keys.Up.SetEnabled(hasImages && m.focus == focusList)
	m.keys.Down.SetEnabled(hasImages && m.focus == focusList)
}

func (m *browseModel) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.syncKeys()
}

func (m *browseModel) showToast(text string, isErr bool) tea.Cmd {
	m.toast = text
	m.toastErr = isErr
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(m.toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m browseModel) listHeight() int {
	h := m.height - listTop - footerHeight
	if h < 3 {
		h = 3
	}
	return h
}

func (m *browseModel) adjustViewport() {
	h := m.listHeight()

	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

// Commands

func (m browseModel) fetchCmd(raw string) tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	return func() tea.Msg {
		result, err := svc.Fetch(ctx, raw)
		return fetchResultMsg{result: result, err: err}
	}
}

func (m browseModel) copyOneCmd(index int) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		url, err := svc.CopyOne(index)
		return copyResultMsg{text: url, err: err}
	}
}

func (m browseModel) copyAllCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		text, err := svc.CopyAll()
		return copyResultMsg{text: text, all: true, err: err}
	}
}

func (m browseModel) openGalleryCmd() tea.Cmd {
	page := services.GalleryPage{
		Link:   m.link,
		Status: m.status,
		Images: append([]domain.Attachment(nil), m.images...),
	}
	gallery, dest, viewer, open := m.gallery, m.galleryPath, m.viewer, m.openFile
	return func() tea.Msg {
		path, err := gallery.WriteFile(dest, page)
		if err != nil {
			return galleryOpenedMsg{err: err}
		}
		if err := open(path, viewer); err != nil {
			return galleryOpenedMsg{path: path, err: err}
		}
		return galleryOpenedMsg{path: path}
	}
}

// View

func (m browseModel) View() string {
	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderInput())
	s.WriteString("\n")
	s.WriteString(m.renderStatus())
	s.WriteString("\n\n")
	s.WriteString(m.renderList())
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))

	return s.String()
}

func (m browseModel) renderHeader() string {
	title := ui.StylePrimary.Render(ui.IconImage + " dgrab")

	endpoint := m.endpoint
	if endpoint == "" {
		endpoint = ui.StyleWarning.Render("no endpoint configured")
	} else {
		endpoint = ui.StyleMuted.Render(ui.Truncate(endpoint, max(m.width/2, 20)))
	}

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(endpoint)
	if spacer < 1 {
		spacer = 1
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), endpoint)
}

func (m browseModel) renderInput() string {
	borderColor := ui.ColorMuted
	if m.focus == focusInput {
		borderColor = ui.ColorPrimary
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}

	return style.Render(m.input.View())
}

func (m browseModel) renderStatus() string {
	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " " + ui.StyleInfo.Render(m.status)
	case m.status == "":
		status = ui.StyleMuted.Render("Ready")
	case m.statusErr:
		status = ui.StyleError.Render(ui.IconError + " " + m.status)
	default:
		status = ui.StyleInfo.Render(m.status)
	}

	if m.toast != "" {
		toastStyle := ui.StyleSuccess
		icon := ui.IconCopy
		if m.toastErr {
			toastStyle = ui.StyleError
			icon = ui.IconError
		}
		status += "   " + toastStyle.Render(icon+" "+m.toast)
	}

	return status
}

func (m browseModel) renderList() string {
	var s strings.Builder
	h := m.listHeight()

	if m.loading || len(m.images) == 0 {
		s.WriteString(ui.StyleSubtle.Render("  " + m.placeholder))
		s.WriteString(strings.Repeat("\n", h-1))
		return s.String()
	}

	end := min(m.offset+h, len(m.images))
	for i := m.offset; i < end; i++ {
		s.WriteString(m.renderItem(i))
		s.WriteString("\n")
	}
	s.WriteString(strings.Repeat("\n", h-(end-m.offset)))

	return s.String()
}

func (m browseModel) renderItem(i int) string {
	img := m.images[i]
	selected := i == m.cursor && m.focus == focusList

	cursor := "  "
	labelStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		labelStyle = ui.StylePrimary
	}

	index := ui.StyleMuted.Render(fmt.Sprintf("%2d.", i+1))

	labelWidth := 32
	label := labelStyle.Render(ui.Truncate(img.DisplayName(), labelWidth))
	label += strings.Repeat(" ", max(labelWidth-lipgloss.Width(label), 0))

	meta := img.ContentType
	if size := img.HumanSize(); size != "" {
		meta += " " + size
	}

	urlWidth := m.width - labelWidth - lipgloss.Width(meta) - 12
	if urlWidth < 10 {
		urlWidth = 10
	}

	return fmt.Sprintf("%s%s %s  %s  %s",
		cursor,
		index,
		label,
		ui.StyleAccent.Render(meta),
		ui.StyleMuted.Render(ui.Truncate(img.URL, urlWidth)),
	)
}
