package kernel

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/five82/rendererhost/internal/state"
)

var (
	// ErrNoFreePort is returned when no port in the range could be bound.
	ErrNoFreePort = errors.New("no free port in range")
	// ErrNotConnected is returned by Send while no kernel is connected.
	ErrNotConnected = errors.New("kernel not connected")
)

const (
	defaultHost  = "127.0.0.1"
	writeTimeout = 5 * time.Second
	closeGrace   = time.Second
)

// MessageHandler receives every inbound kernel message. It runs on the
// connection's read goroutine.
type MessageHandler func(messageType int, data []byte)

// ServerOptions configure a Server.
type ServerOptions struct {
	// Established is written true while a kernel is connected. Required.
	Established *state.Bool
	// FatalError is set when the server cannot bind any port. Optional.
	FatalError *state.Bool
	Handler    MessageHandler
	CertFile   string
	KeyFile    string
	Host       string
	Logger     *zap.Logger
}

// Server is the WebSocket endpoint the kernel connects to. It binds the
// first free port of its range and serves one kernel connection at a time.
type Server struct {
	endpoint    EndpointRange
	established *state.Bool
	fatal       *state.Bool
	handler     MessageHandler
	certFile    string
	keyFile     string
	host        string
	logger      *zap.Logger
	upgrader    websocket.Upgrader

	mu      sync.Mutex
	writeMu sync.Mutex
	srv     *http.Server
	conn    *websocket.Conn
	port    int
	started bool
	closed  bool
}

// Ensure Server implements Transport at compile time.
var _ Transport = (*Server)(nil)

// NewServer builds a server for endpoint. It does not bind until Start.
func NewServer(endpoint EndpointRange, opts ServerOptions) *Server {
	established := opts.Established
	if established == nil {
		established = new(state.Bool)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	host := opts.Host
	if host == "" {
		host = defaultHost
	}
	return &Server{
		endpoint:    endpoint,
		established: established,
		fatal:       opts.FatalError,
		handler:     opts.Handler,
		certFile:    opts.CertFile,
		keyFile:     opts.KeyFile,
		host:        host,
		logger:      logger.Named("kernel"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			// The kernel runs from a local page with its own origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// NewFactory returns a Factory producing servers that share opts.
func NewFactory(opts ServerOptions) Factory {
	return func(secure bool, startPort, endPort int) Transport {
		return NewServer(EndpointRange{StartPort: startPort, EndPort: endPort, Secure: secure}, opts)
	}
}

// Established reports whether a kernel is connected.
func (s *Server) Established() *state.Bool {
	return s.established
}

// Port returns the bound port, or zero before Start succeeds.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// URL returns the address the kernel should dial.
func (s *Server) URL() string {
	scheme := "ws"
	if s.endpoint.Secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/", scheme, net.JoinHostPort(s.host, strconv.Itoa(s.Port())))
}

// Start binds the first free port in the range and serves in the
// background. Failing to bind any port marks the fatal error signal. The
// server closes when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("kernel server already started")
	}
	s.started = true
	s.mu.Unlock()

	ln, port, err := listenInRange(s.host, s.endpoint.StartPort, s.endpoint.EndPort)
	if err != nil {
		s.logger.Error("kernel endpoint unavailable", zap.Stringer("range", s.endpoint), zap.Error(err))
		if s.fatal != nil {
			s.fatal.Set(true)
		}
		return err
	}

	if s.endpoint.Secure {
		tlsConfig, err := s.tlsConfig()
		if err != nil {
			_ = ln.Close()
			if s.fatal != nil {
				s.fatal.Set(true)
			}
			return fmt.Errorf("configure tls: %w", err)
		}
		ln = tls.NewListener(ln, tlsConfig)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleKernel)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	s.mu.Lock()
	s.srv = srv
	s.port = port
	s.mu.Unlock()

	s.logger.Info("kernel endpoint listening", zap.String("url", s.URL()))

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("kernel endpoint stopped unexpectedly", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Close()
	}()
	return nil
}

// Send writes a text message to the connected kernel.
func (s *Server) Send(data []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write kernel message: %w", err)
	}
	return nil
}

// Close stops the server and drops the kernel connection. It is safe to
// call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	conn := s.conn
	s.mu.Unlock()

	if conn != nil {
		s.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "renderer shutting down"),
			time.Now().Add(closeGrace))
		s.writeMu.Unlock()
		_ = conn.Close()
	}
	if srv == nil {
		return nil
	}
	if err := srv.Close(); err != nil {
		return fmt.Errorf("close kernel endpoint: %w", err)
	}
	s.logger.Info("kernel endpoint closed")
	return nil
}

func (s *Server) handleKernel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	busy := s.conn != nil || s.closed
	s.mu.Unlock()
	if busy {
		http.Error(w, "kernel already connected", http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("kernel upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	s.mu.Lock()
	if s.conn != nil || s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	s.logger.Info("kernel connected", zap.String("remote_addr", r.RemoteAddr))
	s.established.Set(true)

	s.readLoop(conn)

	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()

	s.logger.Info("kernel disconnected", zap.String("remote_addr", r.RemoteAddr))
	s.established.Set(false)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("kernel connection lost", zap.Error(err))
			}
			return
		}
		s.logger.Debug("kernel message", zap.Int("type", messageType), zap.Int("bytes", len(data)))
		if s.handler != nil {
			s.handler(messageType, data)
		}
	}
}

func (s *Server) tlsConfig() (*tls.Config, error) {
	var (
		cert tls.Certificate
		err  error
	)
	if s.certFile != "" && s.keyFile != "" {
		cert, err = tls.LoadX509KeyPair(s.certFile, s.keyFile)
		if err != nil {
			return nil, fmt.Errorf("load key pair: %w", err)
		}
	} else {
		s.logger.Warn("no certificate configured, using an ephemeral self-signed certificate")
		cert, err = selfSignedCertificate(s.host)
		if err != nil {
			return nil, err
		}
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// listenInRange binds the first free port in [start, end].
func listenInRange(host string, start, end int) (net.Listener, int, error) {
	if start <= 0 || end < start {
		return nil, 0, fmt.Errorf("%w: invalid range %d-%d", ErrNoFreePort, start, end)
	}
	var lastErr error
	for port := start; port <= end; port++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			return ln, port, nil
		}
		lastErr = err
	}
	return nil, 0, fmt.Errorf("%w %d-%d: %v", ErrNoFreePort, start, end, lastErr)
}
