package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/five82/rendererhost/internal/config"
	"github.com/five82/rendererhost/internal/connection"
	"github.com/five82/rendererhost/internal/display"
	"github.com/five82/rendererhost/internal/kernel"
	"github.com/five82/rendererhost/internal/lifecycle"
	"github.com/five82/rendererhost/internal/loadingflow"
	"github.com/five82/rendererhost/internal/logging"
	"github.com/five82/rendererhost/internal/media"
	"github.com/five82/rendererhost/internal/prefs"
	"github.com/five82/rendererhost/internal/preload"
	"github.com/five82/rendererhost/internal/settings"
	"github.com/five82/rendererhost/internal/state"
	"github.com/five82/rendererhost/internal/ui"
)

const (
	defaultMaxDownloads = 50
	defaultLogLevel     = "info"
)

// TransportFactory builds the kernel transport factory from the server
// options the desktop prepared. Tests swap it for an in-memory transport.
type TransportFactory func(opts kernel.ServerOptions) kernel.Factory

// Options configure the renderer host.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/rendererhost/prefs.toml
	StartPort  int    // launch argument; zero uses the configured port
	FPS        int    // zero uses the configured rate
	LogLevel   string

	// Logger replaces the file logger built from the config.
	Logger *zap.Logger
	// Transport replaces kernel.NewFactory.
	Transport TransportFactory
	// Surface replaces the static surface built from the config.
	Surface display.Surface
}

// Desktop is the composition root. New performs the awake work; the host
// loop then calls OnStart once, OnUpdate every frame and OnShutdown once
// after the loop has exited.
type Desktop struct {
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	logger    *zap.Logger
	ownLogger bool

	store     *state.Store
	settings  *settings.Settings
	endpoint  kernel.EndpointRange
	transport kernel.Transport
	surface   display.Surface
	media     *media.Pool

	coordinator *connection.Coordinator
	loading     *loadingflow.Controller
	preload     *preload.Controller

	quit      atomic.Bool
	startOnce sync.Once
	shutdown  *lifecycle.Sequencer
	stopOnce  sync.Once
}

// New loads configuration, creates the shared settings and data store,
// negotiates and starts the kernel transport and checks the display
// resolution. A transport that cannot bind is not an error here: the server
// raises the fatal error flag and the loading screen reports it.
func New(ctx context.Context, opts Options) (*Desktop, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.FPS > 0 {
		cfg.FPS = opts.FPS
	}

	d := &Desktop{cfg: cfg, prefsPath: opts.PrefsPath}
	if d.prefsPath == "" {
		d.prefsPath = prefs.DefaultPath()
	}

	d.logger = opts.Logger
	if d.logger == nil {
		level := opts.LogLevel
		if level == "" {
			level = defaultLogLevel
		}
		logger, err := logging.New(cfg.LogFile, level)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		d.logger = logger
		d.ownLogger = true
	}

	d.prefs, _ = prefs.Load(d.prefsPath)

	d.settings, err = settings.CreateShared(cfg.Settings.PresetPath,
		settings.WithPresetsDir(cfg.Settings.PresetsDir),
		settings.WithQuality(d.prefs.Quality),
	)
	if err != nil {
		d.closeLogger()
		return nil, fmt.Errorf("create settings: %w", err)
	}
	d.logger.Info("settings created",
		zap.String("collection", d.settings.Collection().Name),
		zap.String("quality", d.settings.Quality().Name))

	d.store = &state.Store{}
	d.store.Performance.Multithreading.Set(true)
	d.store.Performance.MaxDownloads.Set(defaultMaxDownloads)
	d.media = media.NewPool(d.logger)

	if err := d.startTransport(ctx, opts); err != nil {
		d.closeLogger()
		return nil, err
	}

	d.surface = opts.Surface
	if d.surface == nil {
		d.surface = staticSurface(cfg.Display)
	}
	display.Guard(d.surface, d.logger)

	return d, nil
}

func (d *Desktop) startTransport(ctx context.Context, opts Options) error {
	serverOpts := kernel.ServerOptions{
		Established: &d.store.WSCommunication.CommunicationEstablished,
		FatalError:  &d.store.LoadingHUD.FatalError,
		Handler:     d.handleKernelMessage,
		CertFile:    d.cfg.Transport.CertFile,
		KeyFile:     d.cfg.Transport.KeyFile,
		Logger:      d.logger,
	}
	newFactory := opts.Transport
	if newFactory == nil {
		newFactory = kernel.NewFactory
	}

	startPort := opts.StartPort
	if startPort <= 0 {
		startPort = d.cfg.Transport.StartPort
	}
	d.endpoint, d.transport = kernel.Negotiate(
		kernel.LaunchArgs{StartPort: startPort},
		kernel.DebugOverride{
			Enabled:         d.cfg.Debug.Enabled,
			SecureTransport: d.cfg.Debug.WebSocketSSL,
			FixedStartPort:  d.cfg.Debug.StartPort,
		},
		newFactory(serverOpts),
	)
	d.logger.Info("kernel endpoint negotiated",
		zap.Stringer("endpoint", d.endpoint),
		zap.Bool("debug", d.cfg.Debug.Enabled))

	if d.transport == nil {
		return fmt.Errorf("kernel transport factory returned nil for %s", d.endpoint)
	}

	// The coordinator must observe the signal before the kernel can connect.
	d.coordinator = connection.New(connection.QuitFunc(d.RequestQuit), d.logger)
	if err := d.coordinator.Attach(d.transport.Established()); err != nil {
		return fmt.Errorf("attach connection coordinator: %w", err)
	}

	if err := d.transport.Start(ctx); err != nil {
		d.logger.Error("kernel transport failed to start", zap.Error(err))
	}
	return nil
}

func (d *Desktop) handleKernelMessage(messageType int, data []byte) {
	d.logger.Debug("kernel message received",
		zap.Int("type", messageType),
		zap.Int("bytes", len(data)))
}

// Run boots the renderer host and drives it with the terminal frame loop
// until the kernel disconnects, the user quits or ctx is cancelled. Shutdown
// always runs once the loop has exited.
func Run(ctx context.Context, opts Options) error {
	d, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer d.OnShutdown()

	return ui.Run(ui.Options{
		Context:   ctx,
		Host:      d,
		Store:     d.store,
		FPS:       d.FrameRate(),
		Prefs:     d.prefs,
		PrefsPath: d.prefsPath,
		LogFile:   d.cfg.LogFile,
		Endpoint:  d.endpoint.String(),
		Quality:   d.settings.Quality().Name,
	})
}

// OnStart wires the frame-driven controllers. Calls after the first are
// no-ops.
func (d *Desktop) OnStart() {
	d.startOnce.Do(func() {
		d.loading = loadingflow.New(loadingflow.Signals{
			FatalError:               &d.store.LoadingHUD.FatalError,
			LoadingVisible:           &d.store.LoadingHUD.Visible,
			RendererReady:            &d.store.Renderer.Ready,
			CommunicationEstablished: &d.store.WSCommunication.CommunicationEstablished,
		}, loadingflow.Options{Logger: d.logger})

		d.preload = preload.New(&d.store.Renderer.Ready, &d.store.Preloading.Visible, d.logger)
	})
}

// OnUpdate advances one frame.
func (d *Desktop) OnUpdate() {
	if d.loading != nil {
		d.loading.Update()
	}
	if d.coordinator != nil {
		d.coordinator.Tick()
	}
}

// OnShutdown tears everything down in a fixed order. It runs once; every
// step is attempted even when an earlier one fails.
func (d *Desktop) OnShutdown() {
	d.stopOnce.Do(func() {
		d.shutdown = lifecycle.NewSequencer(d.logger,
			lifecycle.Func("detach connection coordinator", func() {
				if d.coordinator != nil {
					d.coordinator.Detach()
				}
			}),
			lifecycle.Step{Name: "close kernel transport", Run: func() error {
				return d.transport.Close()
			}},
			lifecycle.Func("dispose loading flow", func() {
				if d.loading != nil {
					d.loading.Dispose()
				}
			}),
			lifecycle.Func("dispose preloading", func() {
				if d.preload != nil {
					d.preload.Dispose()
				}
			}),
			lifecycle.Func("stop media decoders", d.media.StopAll),
		)
		d.shutdown.Shutdown()
		if err := d.shutdown.Err(); err != nil {
			d.logger.Warn("shutdown finished with errors", zap.Error(err))
		}
		d.closeLogger()
	})
}

// ShutdownErr returns the collected teardown failures, or nil.
func (d *Desktop) ShutdownErr() error {
	if d.shutdown == nil {
		return nil
	}
	return d.shutdown.Err()
}

// FrameRate is the configured frame rate, lowered to the quality preset's
// cap when it has one.
func (d *Desktop) FrameRate() int {
	fps := d.cfg.FPS
	if limit := d.settings.Quality().FPSCap; limit > 0 && limit < fps {
		fps = limit
	}
	return fps
}

// RequestQuit asks the host loop to exit at the end of the current frame.
func (d *Desktop) RequestQuit() {
	if d.quit.CompareAndSwap(false, true) {
		d.logger.Info("quit requested")
	}
}

// QuitRequested reports whether RequestQuit has been called.
func (d *Desktop) QuitRequested() bool {
	return d.quit.Load()
}

// LoadingStatus reports the loading flow phase and how much of the wait has
// passed.
func (d *Desktop) LoadingStatus() (loadingflow.Phase, float64) {
	if d.loading == nil {
		return loadingflow.Loading, 0
	}
	return d.loading.Phase(), d.loading.Progress()
}

func (d *Desktop) Store() *state.Store            { return d.store }
func (d *Desktop) Settings() *settings.Settings   { return d.settings }
func (d *Desktop) Endpoint() kernel.EndpointRange { return d.endpoint }
func (d *Desktop) Surface() display.Surface       { return d.surface }
func (d *Desktop) Media() *media.Pool             { return d.media }

func (d *Desktop) closeLogger() {
	if d.ownLogger {
		_ = d.logger.Sync()
	}
}

func staticSurface(cfg config.Display) *display.Static {
	modes := make([]display.Resolution, 0, len(cfg.Modes))
	for _, m := range cfg.Modes {
		modes = append(modes, resolution(m))
	}
	return display.NewStatic(modes, resolution(cfg.Current), display.ParseFullscreenMode(cfg.Fullscreen))
}

func resolution(m config.DisplayMode) display.Resolution {
	return display.Resolution{Width: m.Width, Height: m.Height, RefreshRate: m.RefreshRate}
}
