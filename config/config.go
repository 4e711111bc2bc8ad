// Package config loads process configuration for the emmet language server
// and command line from TOML files and EMMET_ environment variables.
package config

import (
	"github.com/teranos/emmet/lsp"
)

// Config represents the emmet process configuration
type Config struct {
	Emmet  EmmetConfig  `mapstructure:"emmet" json:"emmet" yaml:"emmet" toml:"emmet"`
	Server ServerConfig `mapstructure:"server" json:"server" yaml:"server" toml:"server"`
	Log    LogConfig    `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// EmmetConfig holds the completion settings applied until an editor sends
// its own
type EmmetConfig struct {
	ShowExpandedAbbreviation    string            `mapstructure:"show_expanded_abbreviation" json:"show_expanded_abbreviation" yaml:"show_expanded_abbreviation" toml:"show_expanded_abbreviation"`
	ShowAbbreviationSuggestions bool              `mapstructure:"show_abbreviation_suggestions" json:"show_abbreviation_suggestions" yaml:"show_abbreviation_suggestions" toml:"show_abbreviation_suggestions"`
	UseNewEmmet                 bool              `mapstructure:"use_new_emmet" json:"use_new_emmet" yaml:"use_new_emmet" toml:"use_new_emmet"`
	ExtensionsPath              string            `mapstructure:"extensions_path" json:"extensions_path" yaml:"extensions_path" toml:"extensions_path"`
	WatchExtensions             bool              `mapstructure:"watch_extensions" json:"watch_extensions" yaml:"watch_extensions" toml:"watch_extensions"` // reload when files in extensions_path change
	ExcludeLanguages            []string          `mapstructure:"exclude_languages" json:"exclude_languages" yaml:"exclude_languages" toml:"exclude_languages"`
	SyntaxProfiles              map[string]any    `mapstructure:"syntax_profiles" json:"syntax_profiles" yaml:"syntax_profiles" toml:"syntax_profiles"`
	Variables                   map[string]string `mapstructure:"variables" json:"variables" yaml:"variables" toml:"variables"`
}

// ServerConfig configures the language server transport
type ServerConfig struct {
	// Transport is stdio or websocket; Address is only used by websocket
	Transport      string   `mapstructure:"transport" json:"transport" yaml:"transport" toml:"transport"`
	Address        string   `mapstructure:"address" json:"address" yaml:"address" toml:"address"`
	MaxDocuments   int      `mapstructure:"max_documents" json:"max_documents" yaml:"max_documents" toml:"max_documents"`
	AllowedOrigins []string `mapstructure:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" json:"json" yaml:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" json:"verbosity" yaml:"verbosity" toml:"verbosity"` // 0 warn, 1 info, 2+ debug
}

// Transports
const (
	TransportStdio     = "stdio"
	TransportWebSocket = "websocket"
)

// Settings converts the emmet section into the completion settings the
// language server starts with
func (c *Config) Settings() lsp.Settings {
	s := lsp.DefaultSettings()
	s.UseNewEmmet = c.Emmet.UseNewEmmet
	s.ShowExpandedAbbreviation = lsp.ShowMode(c.Emmet.ShowExpandedAbbreviation)
	s.ShowAbbreviationSuggestions = c.Emmet.ShowAbbreviationSuggestions
	s.ExtensionsPath = c.Emmet.ExtensionsPath
	s.ExcludeLanguages = c.Emmet.ExcludeLanguages
	if c.Emmet.SyntaxProfiles != nil {
		s.SyntaxProfiles = c.Emmet.SyntaxProfiles
	}
	if c.Emmet.Variables != nil {
		s.Variables = c.Emmet.Variables
	}
	return s
}
