// Package settings bootstraps the shared graphics settings from a named
// quality preset collection.
//
// CreateShared is called once by the application root. The returned
// *Settings is passed explicitly to whoever needs it; there is no global
// instance. Collections are TOML files:
//
//	name = "DesktopGraphicsQualityPresets"
//	default = "Medium"
//
//	[[presets]]
//	name = "Low"
//	render_scale = 0.5
//	fps_cap = 30
//
// A collection name is looked up as <presets_dir>/<name>.toml and then among
// the built-in collections, so a user file with the same name replaces the
// shipped one.
package settings
