// Package kernel negotiates and serves the WebSocket endpoint the external
// kernel process connects to.
//
// # Endpoint Negotiation
//
// Negotiate makes a single deterministic choice and calls the transport
// factory exactly once:
//
//	Source                     StartPort           Secure
//	launch arguments           --port or 7666      true
//	debug override (enabled)   fixed, default 5000 override value
//
// EndPort is always StartPort + 100. Negotiate never retries; finding a
// bindable port inside the window is the transport's concern.
//
// # Server
//
// Server is the production transport. Start walks the window from StartPort
// upward and binds the first free loopback port, wrapping it in TLS when the
// endpoint is secure. Without a configured key pair it generates an
// ephemeral self-signed certificate.
//
// The server accepts one kernel at a time; a second connection attempt gets
// 409 Conflict. The Established signal is written true after the upgrade and
// false when the read loop ends, from the connection goroutine.
//
// If no port in the window can be bound, Start sets the fatal error signal
// so the loading screen can report it, and returns ErrNoFreePort.
//
// # Message Semantics
//
// Inbound messages are passed to the optional MessageHandler untouched.
// Interpreting them is outside this package.
package kernel
