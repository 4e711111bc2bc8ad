package lsp

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/teranos/emmet/errors"
)

// ShowMode controls when the expanded abbreviation is offered
type ShowMode string

const (
	ShowNever  ShowMode = "never"
	ShowAlways ShowMode = "always"
	// ShowInMarkupAndStylesheetFilesOnly offers expansions only in syntaxes
	// the classifier knows
	ShowInMarkupAndStylesheetFilesOnly ShowMode = "inMarkupAndStylesheetFilesOnly"
	// ShowWithInnerNode also offers the innermost node of a child chain on
	// its own
	ShowWithInnerNode ShowMode = "withInnerNode"
)

// Settings are the editor's emmet settings for one request
type Settings struct {
	UseNewEmmet                 bool              `mapstructure:"useNewEmmet"`
	ShowExpandedAbbreviation    ShowMode          `mapstructure:"showExpandedAbbreviation"`
	ShowAbbreviationSuggestions bool              `mapstructure:"showAbbreviationSuggestions"`
	SyntaxProfiles              map[string]any    `mapstructure:"syntaxProfiles"`
	Variables                   map[string]string `mapstructure:"variables"`
	ExcludeLanguages            []string          `mapstructure:"excludeLanguages"`
	ExtensionsPath              string            `mapstructure:"extensionsPath"`
}

// DefaultSettings returns the settings used when the editor sends none
func DefaultSettings() Settings {
	return Settings{
		UseNewEmmet:                 true,
		ShowExpandedAbbreviation:    ShowAlways,
		ShowAbbreviationSuggestions: true,
	}
}

// DecodeSettings decodes an editor settings object over the defaults.
// Booleans are accepted for showExpandedAbbreviation.
func DecodeSettings(raw any) (Settings, error) {
	settings := DefaultSettings()
	if raw == nil {
		return settings, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       showModeHook,
		WeaklyTypedInput: true,
		Result:           &settings,
	})
	if err != nil {
		return settings, errors.Wrap(err, "failed to create settings decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return DefaultSettings(), errors.Wrap(err, "failed to decode emmet settings")
	}
	settings.ShowExpandedAbbreviation = settings.ShowExpandedAbbreviation.normalize()
	return settings, nil
}

var showModeType = reflect.TypeOf(ShowMode(""))

func showModeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != showModeType {
		return data, nil
	}
	if b, ok := data.(bool); ok {
		if b {
			return ShowAlways, nil
		}
		return ShowNever, nil
	}
	return data, nil
}

func (m ShowMode) normalize() ShowMode {
	switch strings.ToLower(string(m)) {
	case "", "always", "true":
		return ShowAlways
	case "never", "off", "false":
		return ShowNever
	case strings.ToLower(string(ShowInMarkupAndStylesheetFilesOnly)):
		return ShowInMarkupAndStylesheetFilesOnly
	case strings.ToLower(string(ShowWithInnerNode)):
		return ShowWithInnerNode
	}
	return m
}

// Valid reports whether m is a recognised show mode
func (m ShowMode) Valid() bool {
	switch m.normalize() {
	case ShowNever, ShowAlways, ShowInMarkupAndStylesheetFilesOnly, ShowWithInnerNode:
		return true
	}
	return false
}

// Enabled reports whether expansions are offered at all
func (m ShowMode) Enabled() bool {
	return m.normalize() != ShowNever
}

// excluded reports whether syntaxID is listed in ExcludeLanguages
func (s Settings) excluded(syntaxID string) bool {
	for _, lang := range s.ExcludeLanguages {
		if strings.EqualFold(lang, syntaxID) {
			return true
		}
	}
	return false
}
