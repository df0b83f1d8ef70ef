package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/rendererhost/internal/kernel"
	"github.com/five82/rendererhost/internal/loadingflow"
	"github.com/five82/rendererhost/internal/prefs"
	"github.com/five82/rendererhost/internal/state"
)

type fakeTransport struct {
	established *state.Bool
	endpoint    kernel.EndpointRange
	factoryHits int
	starts      int
	closes      int
	startErr    error
	closeErr    error
	closePanic  bool
}

func (f *fakeTransport) Established() *state.Bool { return f.established }

func (f *fakeTransport) Start(context.Context) error {
	f.starts++
	return f.startErr
}

func (f *fakeTransport) Close() error {
	f.closes++
	if f.closePanic {
		panic("transport close")
	}
	return f.closeErr
}

func (f *fakeTransport) factory(opts kernel.ServerOptions) kernel.Factory {
	return func(secure bool, startPort, endPort int) kernel.Transport {
		f.factoryHits++
		f.established = opts.Established
		f.endpoint = kernel.EndpointRange{StartPort: startPort, EndPort: endPort, Secure: secure}
		return f
	}
}

type harness struct {
	dir       string
	transport *fakeTransport
	logs      *observer.ObservedLogs
	opts      Options
}

func newHarness(t *testing.T, configBody string) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	configPath := filepath.Join(dir, "config.toml")
	if configBody != "" {
		if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}

	core, logs := observer.New(zap.DebugLevel)
	h := &harness{dir: dir, transport: &fakeTransport{}, logs: logs}
	h.opts = Options{
		ConfigPath: configPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		Logger:     zap.New(core),
		Transport:  h.transport.factory,
	}
	return h
}

func (h *harness) desktop(t *testing.T) *Desktop {
	t.Helper()
	d, err := New(context.Background(), h.opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return d
}

func TestNew_AwakeWiresStoreAndTransport(t *testing.T) {
	h := newHarness(t, "")
	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	snap := d.Store().Snapshot()
	if !snap.Multithreading {
		t.Fatal("Multithreading = false, want true")
	}
	if snap.MaxDownloads != 50 {
		t.Fatalf("MaxDownloads = %d, want 50", snap.MaxDownloads)
	}

	if h.transport.factoryHits != 1 || h.transport.starts != 1 {
		t.Fatalf("factory=%d starts=%d, want 1 and 1", h.transport.factoryHits, h.transport.starts)
	}
	want := kernel.EndpointRange{StartPort: 7666, EndPort: 7766, Secure: true}
	if h.transport.endpoint != want || d.Endpoint() != want {
		t.Fatalf("endpoint = %+v (desktop %+v), want %+v", h.transport.endpoint, d.Endpoint(), want)
	}
	if h.transport.established != &d.Store().WSCommunication.CommunicationEstablished {
		t.Fatal("transport does not write the store's CommunicationEstablished")
	}
	if got := d.Settings().Quality().Name; got != "Medium" {
		t.Fatalf("quality = %q, want collection default Medium", got)
	}
}

func TestNew_LaunchPortAndPrefsQuality(t *testing.T) {
	h := newHarness(t, "")
	if err := prefs.Save(h.opts.PrefsPath, prefs.Prefs{Theme: "Dusk", Quality: "Low"}); err != nil {
		t.Fatalf("prefs.Save: %v", err)
	}
	h.opts.StartPort = 9000
	h.opts.FPS = 120

	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	if got := d.Endpoint(); got.StartPort != 9000 || got.EndPort != 9100 {
		t.Fatalf("endpoint = %+v, want 9000-9100", got)
	}
	if got := d.Settings().Quality().Name; got != "Low" {
		t.Fatalf("quality = %q, want Low from prefs", got)
	}
	if got := d.FrameRate(); got != 30 {
		t.Fatalf("FrameRate() = %d, want Low preset cap 30", got)
	}
}

func TestNew_DebugOverridePinsEndpoint(t *testing.T) {
	h := newHarness(t, "[debug]\nenabled = true\nwebsocket_ssl = false\n")
	h.opts.StartPort = 9000

	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	want := kernel.EndpointRange{StartPort: 5000, EndPort: 5100, Secure: false}
	if got := d.Endpoint(); got != want {
		t.Fatalf("endpoint = %+v, want %+v", got, want)
	}
}

func TestNew_DisplayGuardCorrectsSmallResolution(t *testing.T) {
	body := `
[display]
fullscreen = "windowed"
modes = [
  { width = 1280, height = 720, refresh_rate = 60.0 },
  { width = 1920, height = 1080, refresh_rate = 0.0 },
  { width = 2560, height = 1440, refresh_rate = 144.0 },
  { width = 3840, height = 2160, refresh_rate = 60.0 },
]
current = { width = 1280, height = 720, refresh_rate = 60.0 }
`
	h := newHarness(t, body)
	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	current := d.Surface().Current()
	if current.Width != 2560 || current.Height != 1440 {
		t.Fatalf("current = %+v, want 2560x1440 (first usable mode at or above 1920)", current)
	}
	if got := d.Surface().FullscreenMode().String(); got != "windowed" {
		t.Fatalf("fullscreen mode = %q, want windowed preserved", got)
	}
}

func TestNew_TransportStartFailureKeepsRunning(t *testing.T) {
	h := newHarness(t, "")
	h.transport.startErr = errors.New("bind failed")

	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	if h.logs.FilterMessage("kernel transport failed to start").Len() != 1 {
		t.Fatal("missing transport start failure log")
	}
}

func TestNew_InvalidConfigFails(t *testing.T) {
	h := newHarness(t, "[transport\n")
	if _, err := New(context.Background(), h.opts); err == nil {
		t.Fatal("New succeeded with malformed config, want error")
	}
	if h.transport.factoryHits != 0 {
		t.Fatalf("factory called %d times, want 0", h.transport.factoryHits)
	}
}

func TestFrames_ConnectionLossRequestsQuit(t *testing.T) {
	h := newHarness(t, "")
	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	d.OnStart()
	d.OnStart()

	d.OnUpdate()
	if d.QuitRequested() {
		t.Fatal("QuitRequested before any connection, want false")
	}

	h.transport.established.Set(true)
	d.OnUpdate()
	if d.QuitRequested() {
		t.Fatal("QuitRequested while connected, want false")
	}

	h.transport.established.Set(false)
	d.OnUpdate()
	if !d.QuitRequested() {
		t.Fatal("QuitRequested = false after disconnect, want true")
	}
}

func TestFrames_LossBeforeStartStillQuits(t *testing.T) {
	h := newHarness(t, "")
	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	// The kernel connects and drops before the frame loop has started.
	h.transport.established.Set(true)
	h.transport.established.Set(false)

	d.OnStart()
	d.OnUpdate()
	if !d.QuitRequested() {
		t.Fatal("QuitRequested = false after a disconnect before OnStart, want true")
	}
}

func TestNew_NilTransportFails(t *testing.T) {
	h := newHarness(t, "")
	h.opts.Transport = func(kernel.ServerOptions) kernel.Factory {
		return func(bool, int, int) kernel.Transport { return nil }
	}
	d, err := New(context.Background(), h.opts)
	if err == nil {
		d.OnShutdown()
		t.Fatal("New succeeded with a nil transport, want error")
	}
}

func TestFrames_LoadingStatusFollowsSignals(t *testing.T) {
	h := newHarness(t, "")
	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	if phase, _ := d.LoadingStatus(); phase != loadingflow.Loading {
		t.Fatalf("phase before start = %v, want loading", phase)
	}

	d.OnStart()
	if !d.Store().Preloading.Visible.Get() {
		t.Fatal("preloading indicator hidden before renderer ready")
	}
	d.OnUpdate()
	if !d.Store().LoadingHUD.Visible.Get() {
		t.Fatal("loading screen hidden before ready")
	}

	d.Store().Renderer.Ready.Set(true)
	h.transport.established.Set(true)
	d.OnUpdate()
	if phase, _ := d.LoadingStatus(); phase != loadingflow.Ready {
		t.Fatalf("phase = %v, want ready", phase)
	}
	if d.Store().LoadingHUD.Visible.Get() || d.Store().Preloading.Visible.Get() {
		t.Fatal("loading or preloading still visible once ready")
	}

	d.Store().LoadingHUD.FatalError.Set(true)
	d.OnUpdate()
	if phase, _ := d.LoadingStatus(); phase != loadingflow.Fatal || !d.Store().LoadingHUD.Visible.Get() {
		t.Fatalf("phase = %v, want fatal with loading screen shown", phase)
	}
}

func TestOnShutdown_ReleasesEverythingOnce(t *testing.T) {
	h := newHarness(t, "")
	h.transport.closeErr = errors.New("close failed")
	d := h.desktop(t)
	d.OnStart()

	stopped := make(chan struct{})
	if !d.Media().Start("video", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	}) {
		t.Fatal("media pool rejected decoder before shutdown")
	}

	d.OnShutdown()
	d.OnShutdown()

	if h.transport.closes != 1 {
		t.Fatalf("transport closes = %d, want 1", h.transport.closes)
	}
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("decoder not cancelled by shutdown")
	}
	if d.Media().Start("late", func(context.Context) error { return nil }) {
		t.Fatal("media pool accepted decoder after shutdown")
	}

	store := d.Store()
	if n := store.WSCommunication.CommunicationEstablished.Listeners(); n != 0 {
		t.Fatalf("CommunicationEstablished listeners = %d after shutdown, want 0", n)
	}
	if n := store.Renderer.Ready.Listeners(); n != 0 {
		t.Fatalf("Renderer.Ready listeners = %d after shutdown, want 0", n)
	}
	if n := store.LoadingHUD.FatalError.Listeners(); n != 0 {
		t.Fatalf("FatalError listeners = %d after shutdown, want 0", n)
	}

	err := d.ShutdownErr()
	if err == nil || !errors.Is(err, h.transport.closeErr) {
		t.Fatalf("ShutdownErr() = %v, want wrapped close failure", err)
	}
	if got := h.logs.FilterMessage("shutdown step failed").Len(); got != 1 {
		t.Fatalf("failed step logs = %d, want 1", got)
	}
}

func TestOnShutdown_PanickingCloseDoesNotStopLaterSteps(t *testing.T) {
	h := newHarness(t, "")
	h.transport.closePanic = true
	d := h.desktop(t)
	d.OnStart()

	d.OnShutdown()

	if d.ShutdownErr() == nil {
		t.Fatal("ShutdownErr() = nil after panicking close, want error")
	}
	if d.Store().Renderer.Ready.Listeners() != 0 {
		t.Fatal("preloading not disposed after panicking close")
	}
	if d.Media().Start("late", func(context.Context) error { return nil }) {
		t.Fatal("media pool accepted decoder, stop step did not run")
	}
}

func TestOnShutdown_WithoutStart(t *testing.T) {
	h := newHarness(t, "")
	d := h.desktop(t)

	d.OnShutdown()

	if err := d.ShutdownErr(); err != nil {
		t.Fatalf("ShutdownErr() = %v, want nil", err)
	}
	if h.transport.closes != 1 {
		t.Fatalf("transport closes = %d, want 1", h.transport.closes)
	}
}

func TestRequestQuit_Idempotent(t *testing.T) {
	h := newHarness(t, "")
	d := h.desktop(t)
	t.Cleanup(d.OnShutdown)

	d.RequestQuit()
	d.RequestQuit()
	if !d.QuitRequested() {
		t.Fatal("QuitRequested = false, want true")
	}
	if got := h.logs.FilterMessage("quit requested").Len(); got != 1 {
		t.Fatalf("quit logs = %d, want 1", got)
	}
}
