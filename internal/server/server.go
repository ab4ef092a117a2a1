package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"cadence/internal/app"
	"cadence/internal/catalog"
	"cadence/internal/config"
	"cadence/internal/metadata"
	"cadence/internal/ngrok"
	"cadence/internal/pages"
	"cadence/internal/session"
	"cadence/internal/storage"

	"github.com/sirupsen/logrus"
)

// sessionCleanupInterval is how often idle client sessions are evicted.
const sessionCleanupInterval = time.Minute

// Backend is the key/value store persisted client data lives in.
type Backend interface {
	storage.Store
	Ping() error
}

// Dependencies are the components the server is assembled from.
type Dependencies struct {
	Catalog *catalog.Store
	Store   Backend
	Prober  *metadata.Prober
	// Load reloads the dataset when catalog.watch_for_changes is set.
	Load catalog.LoadFunc
}

// MusicServer serves the player UI and routes client events to per-client
// state.
type MusicServer struct {
	config       *config.Config
	logger       *logrus.Logger
	catalog      *catalog.Store
	store        Backend
	prober       *metadata.Prober
	sessions     *session.Manager
	watcher      *catalog.Watcher
	ngrokService *ngrok.Service
	limiter      *clientLimiter

	httpServer *http.Server
}

// NewMusicServer creates a new music server instance
func NewMusicServer(cfg *config.Config, logger *logrus.Logger, deps Dependencies) (*MusicServer, error) {
	if deps.Catalog == nil || deps.Store == nil || deps.Prober == nil {
		return nil, errors.New("server requires a catalog, a store and a prober")
	}

	idle, err := cfg.Session.IdleDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid session idle timeout: %w", err)
	}

	ngrokSvc, err := ngrok.NewService(&cfg.Ngrok, logger)
	if err != nil {
		logger.WithError(err).Warn("Ngrok service not available")
		ngrokSvc = nil
	}

	ms := &MusicServer{
		config:       cfg,
		logger:       logger,
		catalog:      deps.Catalog,
		store:        deps.Store,
		prober:       deps.Prober,
		ngrokService: ngrokSvc,
	}
	ms.sessions = session.NewManager(ms.newClient, idle, logger)

	if cfg.Catalog.WatchForChanges {
		ms.watcher = catalog.NewWatcher(cfg.Catalog.DataPath, deps.Catalog, deps.Load, logger)
	}
	if cfg.Server.RateLimit > 0 {
		ms.limiter = newClientLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	}

	return ms, nil
}

// newClient builds the state for a client seen for the first time.
func (ms *MusicServer) newClient(clientID string) *app.App {
	return app.New(clientID, ms.store, ms.catalog, app.Options{
		Pages: pages.Options{
			FeaturedCount: ms.config.UI.FeaturedCount,
			SearchLimit:   ms.config.UI.SearchLimit,
		},
		EagerImages: ms.config.UI.EagerImages,
	}, ms.logger)
}

// Handler returns the routed handler wrapped in middleware.
func (ms *MusicServer) Handler() http.Handler {
	mux := http.NewServeMux()
	ms.setupRoutes(mux)

	var handler http.Handler = mux
	handler = ms.rateLimitMiddleware(handler)
	handler = ms.corsMiddleware(handler)
	handler = ms.requestLoggingMiddleware(handler)
	handler = ms.panicRecoveryMiddleware(handler)
	return handler
}

func (ms *MusicServer) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", ms.handleHome)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(ms.config.Server.StaticDir))))
	mux.HandleFunc(metadata.MediaPrefix, ms.handleMedia)
	mux.HandleFunc("/albumart/", ms.handleAlbumArt)
	mux.HandleFunc("/health", ms.handleHealthCheck)

	// Fragments swapped into the page
	mux.HandleFunc("/view/", ms.handleView)

	// Client events
	mux.HandleFunc("/api/player/", ms.handlePlayer)
	mux.HandleFunc("/api/playlists/", ms.handlePlaylists)
	mux.HandleFunc("/api/theme", ms.handleTheme)
	mux.HandleFunc("/api/theme/toggle", ms.handleThemeToggle)
}

// Start serves until ctx is cancelled or Shutdown is called.
func (ms *MusicServer) Start(ctx context.Context) error {
	ms.sessions.StartCleanup(ctx, sessionCleanupInterval)

	if ms.watcher != nil {
		if err := ms.watcher.Start(ctx); err != nil {
			ms.logger.WithError(err).Warn("Could not start catalog watcher")
			ms.watcher = nil
		}
	}

	ms.httpServer = &http.Server{
		Addr:         ms.config.GetAddress(),
		Handler:      ms.Handler(),
		ReadTimeout:  time.Duration(ms.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(ms.config.Server.WriteTimeout) * time.Second,
	}

	listener, err := net.Listen("tcp", ms.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", ms.httpServer.Addr, err)
	}

	c := ms.catalog.Current()
	localAddress := fmt.Sprintf("http://%s", ms.config.GetAddress())
	ms.logger.WithFields(logrus.Fields{
		"address":   localAddress,
		"songs":     c.Len(),
		"playlists": len(c.Playlists()),
		"storage":   ms.config.Storage.Driver,
	}).Info("Cadence server starting")

	if ms.ngrokService != nil {
		if err := ms.ngrokService.StartTunnel(ctx, localAddress); err != nil {
			ms.logger.WithError(err).Warn("Could not start ngrok tunnel")
		}
	}

	if err := ms.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the music server
func (ms *MusicServer) Shutdown(ctx context.Context) error {
	ms.logger.Info("Shutting down music server")

	var err error
	if ms.httpServer != nil {
		err = ms.httpServer.Shutdown(ctx)
	}
	if ms.watcher != nil {
		ms.watcher.Stop()
	}
	if stopErr := ms.ngrokService.Stop(); stopErr != nil {
		ms.logger.WithError(stopErr).Warn("Failed to stop ngrok tunnel")
	}

	ms.logger.Info("Music server shutdown complete")
	return err
}
