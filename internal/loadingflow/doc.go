// Package loadingflow decides when the loading screen is shown.
//
// The Controller reads four signals from the data store and writes one:
//
//	fatalError  ready && established  phase    loadingVisible
//	true        any                   Fatal    true
//	false       true (latched)        Ready    false
//	false       false, wait < timeout Loading  true
//	false       false, wait >= timeout Timeout true
//
// Once the renderer is ready and the kernel connected, the flow latches Ready
// and the screen stays hidden unless a fatal error appears. The wait clock
// starts at construction and restarts when the kernel connects.
//
// Update runs once per frame on the host loop. Dispose releases the
// controller's subscriptions and turns Update into a no-op.
package loadingflow
