// Package app is the composition root of the renderer host.
//
// # Overview
//
// Desktop wires configuration, logging, settings, the data store, the kernel
// transport and the display guard, then exposes the three host hooks the
// frame loop drives. Run builds a Desktop and hands it to the ui package,
// which plays the role of the engine loop.
//
// # Lifecycle
//
//	┌──────────────────┐
//	│ New() (awake)    │
//	└──────┬───────────┘
//	       ├─────> config.Load()            Read config.toml
//	       ├─────> logging.New()            JSON log file
//	       ├─────> prefs.Load()             Theme and quality preset
//	       ├─────> settings.CreateShared()  Graphics quality presets
//	       ├─────> state.Store{}            Multithreading on, 50 max downloads
//	       ├─────> kernel.Negotiate()       Endpoint range and transport
//	       ├─────> coordinator.Attach()     Watch for connection loss
//	       ├─────> transport.Start()        Bind first free port
//	       └─────> display.Guard()          Fix a too-narrow resolution
//
//	┌──────────────────┐
//	│ OnStart()        │ loading flow, preloading
//	├──────────────────┤
//	│ OnUpdate()       │ every frame: loading flow, then coordinator tick
//	├──────────────────┤
//	│ OnShutdown()     │ once, after the frame loop exits
//	└──────────────────┘
//
// # Shutdown order
//
// OnShutdown runs a lifecycle.Sequencer with five steps, each isolated from
// the others' errors and panics:
//
//  1. detach the connection coordinator
//  2. close the kernel transport
//  3. dispose the loading flow controller
//  4. dispose the preloading controller
//  5. stop media decoders (cancel only, no join)
//
// Failures are logged and available from ShutdownErr; they never stop later
// steps and Run does not return them.
//
// # Error Handling
//
// Fatal errors (returned from New and Run):
//   - Configuration file unreadable or invalid
//   - Transport factory returning no transport
//   - Log file cannot be created
//   - Preset collection missing or malformed
//
// Reported through the loading screen instead:
//   - Transport bind failure over the whole port range (LoadingHUD.FatalError)
//   - Kernel disconnect (the coordinator requests quit)
//
// # Configuration
//
// The Options struct allows callers to customize:
//
//   - ConfigPath: path to config.toml (default: ~/.config/rendererhost/config.toml)
//   - PrefsPath: path to prefs.toml (default: ~/.config/rendererhost/prefs.toml)
//   - StartPort: launch argument for the first kernel port (default: 7666)
//   - FPS: frame rate (default: from config, 30), capped by the quality preset
//   - LogLevel: zap level name (default: info)
//
// Logger, Transport and Surface replace the real logger, WebSocket server and
// static display surface, which is how the tests drive a Desktop.
package app
