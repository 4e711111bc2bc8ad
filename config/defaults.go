package config

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultAddress      = ":7070"
	DefaultMaxDocuments = 100
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Completion defaults match an editor that sends no settings
	v.SetDefault("emmet.show_expanded_abbreviation", "always")
	v.SetDefault("emmet.show_abbreviation_suggestions", true)
	v.SetDefault("emmet.use_new_emmet", true)
	v.SetDefault("emmet.extensions_path", "")
	v.SetDefault("emmet.watch_extensions", true)
	v.SetDefault("emmet.exclude_languages", []string{})

	v.SetDefault("server.transport", TransportStdio)
	v.SetDefault("server.address", DefaultAddress)
	v.SetDefault("server.max_documents", DefaultMaxDocuments)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
		"vscode-webview://",
	})

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}
