package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/emmet/config"
	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/lsp"
	"github.com/teranos/emmet/options"
	"github.com/teranos/emmet/server"
	"github.com/teranos/emmet/version"
)

// ServeCmd starts the language server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server", "lsp"},
	Short:   "Start the emmet language server",
	Long: `Start the language server. With the stdio transport (the default) the
editor launches the process and talks LSP on stdin/stdout; nothing else is
written to stdout and logs go to stderr. With the websocket transport the
server listens on --address and serves each connection at ` + server.WebSocketPath + `.

Examples:
  emmet serve
  emmet serve --transport websocket --address :7070
  emmet serve --extensions ~/.config/emmet`,
	RunE: runServe,
}

var (
	serveTransport  string
	serveAddress    string
	serveExtensions string
)

func init() {
	ServeCmd.Flags().StringVar(&serveTransport, "transport", "", "stdio or websocket (default: server.transport)")
	ServeCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address for websocket (default: server.address)")
	ServeCmd.Flags().StringVar(&serveExtensions, "extensions", "", "Extensions directory (default: emmet.extensions_path)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	log := logger.ComponentLogger("serve")

	transport := cfg.Server.Transport
	if serveTransport != "" {
		transport = serveTransport
	}
	address := cfg.Server.Address
	if serveAddress != "" {
		address = serveAddress
	}

	settings := cfg.Settings()
	if serveExtensions != "" {
		settings.ExtensionsPath = serveExtensions
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := options.NewStore()
	defer store.Wait()
	if settings.ExtensionsPath != "" {
		if err := store.Update(ctx, settings.ExtensionsPath); err != nil {
			return errors.Wrap(err, "failed to load extensions")
		}
		log.Infow("Loaded extensions", logger.FieldPath, settings.ExtensionsPath)

		if cfg.Emmet.WatchExtensions {
			watcher, err := watchExtensions(store, settings.ExtensionsPath)
			if err != nil {
				// Completions still work from the initial load
				log.Warnw("Not watching extensions", logger.FieldError, err)
			} else {
				defer watcher.Stop()
			}
		}
	}

	srv := server.New(lsp.NewService(store), server.Options{
		Settings:       settings,
		MaxDocuments:   cfg.Server.MaxDocuments,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Debug:          verbosity(cmd) >= 3,
	})

	switch transport {
	case config.TransportStdio:
		return srv.ServeStdio()
	case config.TransportWebSocket:
		info := version.Get()
		pterm.Info.Printfln("emmet language server %s listening on ws://%s%s", info.ServerVersion(), address, server.WebSocketPath)
		pterm.Info.Println("Press Ctrl+C to stop")
		return srv.ServeWebSocket(ctx, address)
	default:
		return errors.Newf("unknown transport %q", transport)
	}
}

// watchExtensions reloads the store when files in dir change, unless an
// editor has pointed the store at another directory since
func watchExtensions(store *options.Store, dir string) (*config.ExtensionsWatcher, error) {
	watcher, err := config.NewExtensionsWatcher(dir)
	if err != nil {
		return nil, err
	}
	watcher.OnReload(func(path string) error {
		if store.Current().Path != path {
			return nil
		}
		return <-store.UpdateAsync(path)
	})
	watcher.Start()
	return watcher, nil
}
