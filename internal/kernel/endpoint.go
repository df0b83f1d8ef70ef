package kernel

import (
	"context"
	"fmt"

	"github.com/five82/rendererhost/internal/state"
)

// WindowSize is the number of ports above the start port the transport may
// scan. EndPort is always StartPort + WindowSize.
const WindowSize = 100

// MaxStartPort is the highest start port whose window stays within the
// valid port range.
const MaxStartPort = 65535 - WindowSize

const (
	// DefaultStartPort is used when the launch arguments carry no port.
	DefaultStartPort = 7666
	// DefaultDebugStartPort is the port pinned by the debug override.
	DefaultDebugStartPort = 5000
)

// EndpointRange is the port window handed to the transport.
type EndpointRange struct {
	StartPort int
	EndPort   int
	Secure    bool
}

func (r EndpointRange) String() string {
	scheme := "ws"
	if r.Secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s:%d-%d", scheme, r.StartPort, r.EndPort)
}

// LaunchArgs carries the transport-related launch arguments.
type LaunchArgs struct {
	StartPort int // zero selects DefaultStartPort
}

// DebugOverride pins the endpoint for development builds.
type DebugOverride struct {
	Enabled         bool
	SecureTransport bool
	FixedStartPort  int
}

// Transport is the kernel communication channel. Established reports
// whether a kernel is currently connected.
type Transport interface {
	Established() *state.Bool
	Start(ctx context.Context) error
	Close() error
}

// Factory creates the transport for a negotiated endpoint.
type Factory func(secure bool, startPort, endPort int) Transport

// NegotiateRange picks the endpoint from launch arguments, or from the debug
// override when it is enabled. Transport is secure unless the override
// says otherwise.
func NegotiateRange(args LaunchArgs, debug DebugOverride) EndpointRange {
	secure := true
	startPort := args.StartPort
	if startPort <= 0 {
		startPort = DefaultStartPort
	}

	if debug.Enabled {
		secure = debug.SecureTransport
		startPort = debug.FixedStartPort
		if startPort <= 0 {
			startPort = DefaultDebugStartPort
		}
	}

	return EndpointRange{
		StartPort: startPort,
		EndPort:   startPort + WindowSize,
		Secure:    secure,
	}
}

// Negotiate chooses the endpoint and calls factory exactly once. There is no
// retry here; scanning the range is the transport's job.
func Negotiate(args LaunchArgs, debug DebugOverride, factory Factory) (EndpointRange, Transport) {
	endpoint := NegotiateRange(args, debug)
	return endpoint, factory(endpoint.Secure, endpoint.StartPort, endpoint.EndPort)
}
