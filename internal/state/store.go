package state

// WSCommunication groups signals owned by the kernel transport.
type WSCommunication struct {
	CommunicationEstablished Bool
}

// LoadingHUD groups the loading screen signals.
type LoadingHUD struct {
	FatalError Bool
	Visible    Bool
}

// Renderer groups signals owned by the host loop.
type Renderer struct {
	Ready Bool
}

// Preloading groups the preloading indicator signals.
type Preloading struct {
	Visible Bool
}

// Performance groups runtime tuning values.
type Performance struct {
	Multithreading Bool
	MaxDownloads   Int
}

// Store is the explicit, injected home of every shared signal. It is created
// once by the application root and passed to the components that need it.
// A Store must not be copied.
type Store struct {
	WSCommunication WSCommunication
	LoadingHUD      LoadingHUD
	Renderer        Renderer
	Preloading      Preloading
	Performance     Performance
}

// Snapshot is a point-in-time copy of the store used for rendering.
type Snapshot struct {
	CommunicationEstablished bool
	FatalError               bool
	LoadingVisible           bool
	RendererReady            bool
	PreloadingVisible        bool
	Multithreading           bool
	MaxDownloads             int
}

// Interactive reports whether the renderer is ready, the kernel is connected
// and no fatal error is pending.
func (s Snapshot) Interactive() bool {
	return s.RendererReady && s.CommunicationEstablished && !s.FatalError
}

// Snapshot returns a copy of the current values. Each field is read
// independently.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		CommunicationEstablished: s.WSCommunication.CommunicationEstablished.Get(),
		FatalError:               s.LoadingHUD.FatalError.Get(),
		LoadingVisible:           s.LoadingHUD.Visible.Get(),
		RendererReady:            s.Renderer.Ready.Get(),
		PreloadingVisible:        s.Preloading.Visible.Get(),
		Multithreading:           s.Performance.Multithreading.Get(),
		MaxDownloads:             s.Performance.MaxDownloads.Get(),
	}
}
