// Package ui is the renderer host's frame loop and loading screen.
//
// # Frame loop
//
// A Bubble Tea program stands in for the engine loop. The model calls the
// Host hooks on the program goroutine:
//
//   - Init calls Host.OnStart once.
//   - Every frameMsg (FPS per second, default 30) calls Host.OnUpdate, then
//     copies the store into a snapshot for rendering.
//   - When Host.QuitRequested reports true after a frame, the model returns
//     tea.Quit and Run returns.
//
// The first tea.WindowSizeMsg sets Renderer.Ready in the store: once the
// terminal has reported a size there is a surface to draw on.
//
// Cancelling Options.Context quits the program from outside the loop.
//
// # Screens
//
// The view follows the loading flow phase:
//
//   - Loading: spinner, connection line, preloading hint and a progress bar
//     that fills as the loading wait runs out.
//   - Timeout: a warning that the kernel is late; the program keeps waiting.
//   - Fatal: the last lines of the host log, decoded by logtail.Entries and
//     colored by level. "r" reloads them.
//   - Ready: kernel endpoint, quality preset and frame count.
//
// # Keys
//
//   - q, esc, ctrl+c: quit
//   - T: cycle theme (Dusk, Daylight), persisted to prefs.toml
//   - r: reload the log on the fatal screen
package ui
