// Package server serves abbreviation completions over the Language Server
// Protocol, on stdio for a single editor or over WebSocket for many.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"
	"go.uber.org/zap"

	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/lsp"
	"github.com/teranos/emmet/version"
)

// WebSocketPath is the endpoint LSP clients connect to
const WebSocketPath = "/lsp"

const shutdownTimeout = 5 * time.Second

// Options configure a Server
type Options struct {
	// Settings apply to each client until it sends its own
	Settings     lsp.Settings
	MaxDocuments int
	// AllowedOrigins are matched as prefixes of the WebSocket Origin header
	AllowedOrigins []string
	Debug          bool
}

// Server runs the language server on a transport. Every connection gets
// its own handler and document cache; the completion service is shared.
type Server struct {
	service  *lsp.Service
	opts     Options
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	wg    sync.WaitGroup
}

// New creates a server for service
func New(service *lsp.Service, opts Options) *Server {
	s := &Server{
		service: service,
		opts:    opts,
		logger:  logger.ComponentLogger("server"),
		conns:   make(map[*websocket.Conn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) newHandler() (*GLSPHandler, error) {
	return NewGLSPHandler(s.service, s.opts.Settings, s.opts.MaxDocuments)
}

// ServeStdio serves one client on stdin/stdout until it disconnects
func (s *Server) ServeStdio() error {
	h, err := s.newHandler()
	if err != nil {
		return err
	}

	s.logger.Infow("Serving LSP over stdio", "version", serverVersion())
	glspServer := glspserver.NewServer(h.ProtocolHandler(), serverName, s.opts.Debug)
	if err := glspServer.RunStdio(); err != nil {
		return errors.Wrap(err, "stdio transport failed")
	}
	return nil
}

// ServeWebSocket listens on addr and serves one client per WebSocket
// connection until ctx is cancelled
func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, s.HandleWebSocket)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Serving LSP over WebSocket",
			"address", addr,
			logger.FieldPath, WebSocketPath,
			"version", serverVersion())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "failed to listen on %s", addr)
	case <-ctx.Done():
	}

	s.logger.Infow("Shutting down WebSocket server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	<-errCh
	// Hijacked WebSocket connections are not tracked by Shutdown
	s.closeConnections()
	s.wg.Wait()
	if err != nil {
		return errors.Wrap(err, "failed to shut down WebSocket server")
	}
	return nil
}

// HandleWebSocket upgrades HTTP to WebSocket and serves LSP on it. It
// blocks until the connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.logger.Infow("LSP WebSocket connection request", "remote", r.RemoteAddr)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Errorw("Failed to upgrade WebSocket for LSP", logger.FieldError, err)
		return
	}

	h, err := s.newHandler()
	if err != nil {
		s.logger.Errorw("Failed to create LSP handler", logger.FieldError, err)
		_ = conn.Close()
		return
	}

	s.track(conn)
	defer s.untrack(conn)

	glspServer := glspserver.NewServer(h.ProtocolHandler(), serverName, s.opts.Debug)
	glspServer.ServeWebSocket(conn)

	s.logger.Infow("LSP WebSocket connection closed", "remote", r.RemoteAddr)
}

func (s *Server) track(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wg.Add(1)
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.wg.Done()
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	if len(s.conns) > 0 {
		s.logger.Infow("Closed LSP WebSocket connections", logger.FieldCount, len(s.conns))
	}
}

// checkOrigin validates the WebSocket origin against the allowed origins.
// Requests without an Origin header come from non-browser clients and are
// accepted.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	s.logger.Warnw("Rejected WebSocket origin", "origin", origin)
	return false
}

func serverVersion() string {
	return version.Get().ServerVersion()
}
