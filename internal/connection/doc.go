// Package connection ends the session when the kernel connection drops.
//
// The Coordinator subscribes to the "communication established" signal and
// reacts to edges, not levels:
//
//	Connected --(true -> false)--> Lost
//
// Lost is terminal. A reconnect shows up as a fresh rising edge, which the
// coordinator ignores; reconnection belongs to the transport.
//
// Tick is called once per frame from the host loop. It polls the latch and,
// after loss, asks the Quitter to end the application exactly once.
//
// The edge callback may fire on the transport's goroutine, so the latch is
// atomic. Tick and the quit bookkeeping stay on the frame loop.
package connection
