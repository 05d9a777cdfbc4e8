// Package config provides a thin typed wrapper over map[string]any
// configuration, with YAML and JSON file loading.
//
// It backs two things: process-level settings for programs embedding the
// engine, and the typed view over a State's Config map exposed by
// State.ConfigView.
package config
