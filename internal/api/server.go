package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/amterp/flagmaker/internal/store"
)

// Server wraps the HTTP server for the web frontend.
type Server struct {
	httpServer *http.Server
	watcher    *ConfigWatcher
	wsHub      *WebSocketHub
}

// NewServer creates a new server for handler's session on the given port.
// If configStore is nil, config hot-reloading is disabled.
func NewServer(handler *Handler, port int, configStore store.ConfigStore) *Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	controller := handler.session.Controller
	wsHub := NewWebSocketHub(controller.State)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)
	controller.Subscribe(wsHub.OnStateChange)

	var watcher *ConfigWatcher
	if configStore != nil && configStore.Path() != "" {
		var err error
		watcher, err = NewConfigWatcher(configStore.Path())
		if err != nil {
			log.Printf("Warning: failed to create config watcher: %v", err)
		} else {
			watcher.Subscribe(&configReloader{
				store:   configStore,
				handler: handler,
				hub:     wsHub,
			})
		}
	}

	wrapped := Logging(Cors(mux))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      wrapped,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		watcher: watcher,
		wsHub:   wsHub,
	}
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			log.Printf("Warning: failed to start config watcher: %v", err)
		}
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Stop()
	}

	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// configReloader re-reads the config file on change and pushes it into the
// running session. A broken file is logged and the previous config kept.
type configReloader struct {
	store   store.ConfigStore
	handler *Handler
	hub     *WebSocketHub
}

func (r *configReloader) OnConfigChange(change ConfigChange) {
	cfg, err := r.store.Load()
	if err != nil {
		log.Printf("Keeping previous config, reload of %s failed: %v", change.Path, err)
		return
	}

	r.handler.ApplyConfig(cfg)
	r.hub.OnConfigReload(cfg.AllTemplates())
	log.Printf("Config reloaded from %s (%s)", change.Path, change.Type)
}
