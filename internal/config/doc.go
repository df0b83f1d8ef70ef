// Package config loads the renderer host configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/rendererhost/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Default Values
//
//   - Log file: ~/.local/share/rendererhost/logs/rendererhost.log
//   - Frame rate: 30 frames per second
//   - Kernel start port: 7666 (launch arguments may override it)
//   - Debug start port: 5000, TLS off, override disabled
//   - Presets: DesktopGraphicsQualityPresets in ~/.config/rendererhost/presets
//   - Display: 800x600 through 1920x1080 at 60Hz, current 1920x1080
//
// # TOML Format
//
//	log_file = "~/.local/share/rendererhost/logs/rendererhost.log"
//	fps = 30
//
//	[transport]
//	start_port = 7666
//	cert_file = "~/.config/rendererhost/tls/cert.pem"
//	key_file = "~/.config/rendererhost/tls/key.pem"
//
//	[debug]
//	enabled = false
//	websocket_ssl = false
//	start_port = 5000
//
//	[display]
//	fullscreen = "fullscreen_window"
//	modes = [
//	  { width = 1920, height = 1080, refresh_rate = 60 },
//	  { width = 3840, height = 2160, refresh_rate = 60 },
//	]
//	current = { width = 1920, height = 1080, refresh_rate = 60 }
//
//	[settings]
//	presets_dir = "~/.config/rendererhost/presets"
//	preset = "DesktopGraphicsQualityPresets"
//
// When [display] lists modes without a current entry, the largest listed
// mode is current. Modes are expected in ascending order.
//
// # Validation
//
// Start ports must leave room for the 100-port scan window, so both
// transport.start_port and debug.start_port must lie in [1, 65435].
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, and out-of-range ports.
package config
