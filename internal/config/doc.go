// Package config loads and validates the engine and logging settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//  1. Built-in defaults ([Default])
//  2. A TOML or YAML file, chosen by extension
//  3. Environment variables with the IDE_ prefix
//
// Example TOML:
//
//	[engine]
//	initial_capacity = 1024
//	coalesce_window = "750ms"
//	forward_erase_coalescing = true
//
//	[logging]
//	level = "debug"
//	file = "/tmp/ide.log"
//
// Environment variables map onto the same keys: IDE_ENGINE_COALESCE_WINDOW
// sets engine.coalesce_window. A few short forms exist, such as IDE_LOG_LEVEL
// and IDE_COALESCE_WINDOW.
//
// The watcher subpackage reports edits to the file so a running program can
// reload it; see [Watch].
package config
