// Package config loads caret settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment (CARET_*)   │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file             │  ← caret.toml or caret.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The file format is chosen by extension: .toml is read with go-toml and
// .yaml or .yml with yaml.v3. Environment variables map onto settings by
// section: CARET_EDITOR_TAB_WIDTH sets editor.tab_width. Keys that no
// setting is defined for are rejected with ErrUnknownSetting.
//
// # Basic Usage
//
//	settings, err := config.Load("caret.toml")
//	if err != nil {
//	    return err
//	}
//	doc := engine.New(settings.EngineOptions()...)
//
// # Example File
//
//	[editor]
//	tab_width = 2
//	use_tabs = false
//	line_ending = "lf"
//
//	[language]
//	highlighter = "chroma"
//	script = "handlers/go.lua"
//
// # Live Reload
//
// Watch reloads the file whenever it is written, created or replaced and
// passes the new settings to a callback. Bursts of events are debounced.
//
//	w, err := config.Watch("caret.toml", func(ev config.Event, s *config.Settings, err error) {
//	    ...
//	})
//	defer w.Close()
package config
