package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/DeskFolio/backend/internal/api/http"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/api/middleware"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/api/ws"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/panel"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/domain/session"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/providers/wallpapers"
	"github.com/GriffinCanCode/DeskFolio/backend/internal/shared/paths"
)

// streamSuffix marks the WebSocket route, which must not be compressed
const streamSuffix = "/stream"

// Server wraps the HTTP server and dependencies
type Server struct {
	config   *config.Config
	logger   *logging.Logger
	router   *gin.Engine
	http     *http.Server
	sessions *session.Manager
	store    storage.Store
	images   *wallpapers.Catalog
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer
}

// Options overrides what New would otherwise build from the config
type Options struct {
	// Store replaces the configured key-value driver
	Store storage.Store
	// Catalog replaces the built-in panel catalog
	Catalog *panel.Catalog
}

// New creates a server instance from cfg
func New(cfg *config.Config, logger *logging.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	logger.Info("Initializing desktop server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage", cfg.Storage.Driver),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics(nil)

	tracer := tracing.New("desktop", logger.Component("trace"))

	store := opts.Store
	if store == nil {
		var err error
		store, err = openStore(cfg.Storage)
		if err != nil {
			tracer.Close()
			return nil, err
		}
	}
	logger.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	images := scanWallpapers(cfg.Wallpapers, logger)

	catalog := opts.Catalog
	if catalog == nil {
		catalog = panel.Builtin()
	}
	catalog = catalog.WithLogger(logger.Component("panels"))

	sessions := session.NewManager(store, session.Config{
		IdleTTL:      cfg.Session.IdleTTL.Std(),
		ReapInterval: cfg.Session.ReapInterval.Std(),
		MaxSessions:  cfg.Session.MaxSessions,
		Desktop: desktop.Options{
			Catalog:    catalog,
			Wallpapers: images,
			BootDelay:  cfg.Session.BootDelay.Std(),
		},
		Logger:  logger.Component("session"),
		Metrics: metrics,
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Component("http")))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSFromOrigins(cfg.CORS.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	if images != nil {
		router.Static(cfg.Wallpapers.Prefix, images.Root())
	}

	handlers := apihttp.NewHandlers(sessions, catalog, images, metrics, logger.Component("api"))
	stream := ws.NewHandler(sessions, metrics, logger.Component("ws"))
	apihttp.Register(router, handlers, stream.HandleConnection)

	s := &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		sessions: sessions,
		store:    store,
		images:   images,
		metrics:  metrics,
		tracer:   tracer,
	}
	s.http = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the root handler: the router behind gzip for everything
// except the WebSocket stream
func (s *Server) Handler() http.Handler {
	compressed := gzhttp.GzipHandler(s.router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, streamSuffix) {
			s.router.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}

// Sessions returns the session manager
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Run starts the idle reaper and serves HTTP until Shutdown
func (s *Server) Run() error {
	s.sessions.Start()
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains HTTP connections, closes every session and releases
// storage. It is safe to call once Run has returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	err := s.http.Shutdown(ctx)
	s.sessions.Shutdown()
	s.tracer.Close()
	if cerr := s.store.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close storage: %w", cerr))
	}
	_ = s.logger.Sync()
	return err
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	layout := paths.New(cfg.Path)
	if err := layout.Ensure(cfg.Driver); err != nil {
		return nil, err
	}
	return storage.Open(storage.Config{
		Driver:    cfg.Driver,
		Path:      layout.ForDriver(cfg.Driver),
		CacheSize: cfg.CacheSize,
	})
}

// scanWallpapers indexes the static wallpaper directory. A missing
// directory disables the catalog.
func scanWallpapers(cfg config.WallpaperConfig, logger *logging.Logger) *wallpapers.Catalog {
	dir, ok := paths.Wallpapers(cfg.Dir)
	if !ok {
		logger.Debug("No wallpaper directory", zap.String("dir", dir))
		return nil
	}

	images := wallpapers.New(dir, cfg.Prefix)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := images.Scan(ctx, cfg.Pattern)
	if err != nil {
		logger.Warn("Wallpaper scan failed", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	logger.Info("Wallpapers indexed", zap.String("dir", dir), zap.Int("count", n))
	return images
}
