// Package state holds the shared signals of the renderer host.
//
// # Overview
//
// The Store replaces a process-wide data store with an explicit value that the
// application root creates once and passes to every component that reads or
// writes a signal. Nothing in this package is global.
//
// # Observable Values
//
// Every signal is a Value[T]: a mutex-guarded value with change notification.
//
//	var ready state.Bool
//	unsubscribe := ready.OnChange(func(current, previous bool) {
//		log.Printf("ready %v -> %v", previous, current)
//	})
//	ready.Set(true)  // notifies: false -> true
//	ready.Set(true)  // silent, no transition
//	unsubscribe()
//
// Notification rules:
//
//   - Listeners fire only when the stored value actually changes
//   - Listeners run synchronously on the goroutine that called Set
//   - Listeners run after the lock is released, so they may call Get, Set
//     or their own unsubscribe function
//   - Unsubscribe functions are idempotent
//
// # Ownership
//
// Each signal has exactly one writer:
//
//	Signal                                  Writer
//	WSCommunication.CommunicationEstablished  kernel transport
//	LoadingHUD.FatalError                     kernel transport (bind failure)
//	LoadingHUD.Visible                        loading flow controller
//	Renderer.Ready                            host loop (first window size)
//	Preloading.Visible                        preloading controller
//	Performance.*                             application root at startup
//
// Readers either subscribe with OnChange or poll with Get from the frame loop.
//
// # Snapshots
//
// Snapshot copies every value into a plain struct for rendering. Fields are
// read one at a time, so a snapshot taken while the transport is writing may
// mix old and new values; the next frame corrects it.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	var s state.Store
//	s.Renderer.Ready.Set(true)
//
// A Store contains mutexes and must be passed by pointer.
package state
