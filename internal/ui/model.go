package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/rendererhost/internal/loadingflow"
	"github.com/five82/rendererhost/internal/logtail"
	"github.com/five82/rendererhost/internal/prefs"
	"github.com/five82/rendererhost/internal/state"
)

const (
	defaultFPS    = 30
	fatalLogLines = 12
	progressWidth = 48
)

// Host receives the frame loop callbacks.
type Host interface {
	OnStart()
	OnUpdate()
	QuitRequested() bool
	LoadingStatus() (loadingflow.Phase, float64)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Host      Host
	Store     *state.Store
	FPS       int
	Timeout   time.Duration // loading wait shown next to the progress bar
	Prefs     prefs.Prefs
	PrefsPath string
	LogFile   string
	Endpoint  string
	Quality   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	host      Host
	store     *state.Store
	frame     time.Duration
	timeout   time.Duration
	prefs     prefs.Prefs
	prefsPath string
	logFile   string
	endpoint  string
	quality   string

	// UI state
	theme    Theme
	styles   Styles
	spinner  spinner.Model
	progress progress.Model
	width    int
	height   int
	sized    bool

	// Frame state
	snapshot state.Snapshot
	phase    loadingflow.Phase
	waited   float64
	frames   uint64

	// Fatal screen
	logRequested bool
	logEntries   []logtail.Entry
	logErr       error
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = loadingflow.DefaultTimeout
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	m := Model{
		host:      opts.Host,
		store:     store,
		frame:     time.Second / time.Duration(fps),
		timeout:   timeout,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		logFile:   opts.LogFile,
		endpoint:  opts.Endpoint,
		quality:   opts.Quality,
	}
	m.applyTheme(GetTheme(opts.Prefs.Theme))
	return m
}

func (m *Model) applyTheme(theme Theme) {
	m.theme = theme
	m.styles = theme.Styles()
	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(m.styles.Accent),
	)
	m.progress = progress.New(
		progress.WithGradient(theme.Accent, theme.Success),
		progress.WithWidth(progressWidth),
		progress.WithoutPercentage(),
	)
	if m.width > 0 {
		m.progress.Width = minInt(progressWidth, maxInt(m.width-12, 10))
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.host != nil {
		m.host.OnStart()
	}
	return tea.Batch(frameCmd(m.frame), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = minInt(progressWidth, maxInt(m.width-12, 10))
		if !m.sized {
			// The first size report means there is a surface to draw on.
			m.sized = true
			m.store.Renderer.Ready.Set(true)
		}
		return m, nil

	case frameMsg:
		return m.handleFrame()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logTailMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) handleFrame() (tea.Model, tea.Cmd) {
	if m.host != nil {
		m.host.OnUpdate()
		m.phase, m.waited = m.host.LoadingStatus()
	}
	m.frames++
	m.snapshot = m.store.Snapshot()

	if m.host != nil && m.host.QuitRequested() {
		return m, tea.Quit
	}

	cmds := []tea.Cmd{frameCmd(m.frame)}
	if m.snapshot.FatalError && !m.logRequested && m.logFile != "" {
		m.logRequested = true
		cmds = append(cmds, loadLogCmd(m.logFile))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "T":
		// Cycle theme
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		m.prefs.Theme = m.theme.Name
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, m.prefs)
		}
		return m, nil

	case "r":
		if m.snapshot.FatalError && m.logFile != "" {
			return m, loadLogCmd(m.logFile)
		}
	}
	return m, nil
}

// Messages

type frameMsg time.Time

type logTailMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func loadLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Entries(path, fatalLogLines)
		return logTailMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits. Cancelling
// opts.Context ends the program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := tea.NewProgram(New(opts), tea.WithAltScreen())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	_, err := p.Run()
	return err
}
