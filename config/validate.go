package config

import (
	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/lsp"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportWebSocket:
	default:
		return errors.Newf("server.transport must be %q or %q, got %q",
			TransportStdio, TransportWebSocket, c.Server.Transport)
	}

	if c.Server.Transport == TransportWebSocket && c.Server.Address == "" {
		return errors.New("server.address cannot be empty for the websocket transport")
	}

	if c.Server.MaxDocuments <= 0 {
		return errors.Newf("server.max_documents must be > 0, got %d", c.Server.MaxDocuments)
	}

	if !lsp.ShowMode(c.Emmet.ShowExpandedAbbreviation).Valid() {
		return errors.Newf("emmet.show_expanded_abbreviation: unknown mode %q", c.Emmet.ShowExpandedAbbreviation)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}
