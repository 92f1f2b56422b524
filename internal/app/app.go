// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/statusdash/statusdash/internal/cache"
	"github.com/statusdash/statusdash/internal/catalog"
	catalogpostgres "github.com/statusdash/statusdash/internal/catalog/postgres"
	"github.com/statusdash/statusdash/internal/config"
	"github.com/statusdash/statusdash/internal/dashboard"
	dashboardpostgres "github.com/statusdash/statusdash/internal/dashboard/postgres"
	"github.com/statusdash/statusdash/internal/domain"
	"github.com/statusdash/statusdash/internal/escalation"
	escalationpostgres "github.com/statusdash/statusdash/internal/escalation/postgres"
	"github.com/statusdash/statusdash/internal/events"
	eventspostgres "github.com/statusdash/statusdash/internal/events/postgres"
	"github.com/statusdash/statusdash/internal/identity"
	identitypostgres "github.com/statusdash/statusdash/internal/identity/postgres"
	"github.com/statusdash/statusdash/internal/notifications"
	"github.com/statusdash/statusdash/internal/notifications/email"
	notificationspostgres "github.com/statusdash/statusdash/internal/notifications/postgres"
	"github.com/statusdash/statusdash/internal/pkg/ctxlog"
	"github.com/statusdash/statusdash/internal/pkg/httputil"
	"github.com/statusdash/statusdash/internal/pkg/metrics"
	"github.com/statusdash/statusdash/internal/pkg/postgres"
	"github.com/statusdash/statusdash/internal/pkg/redis"
	"github.com/statusdash/statusdash/internal/reports"
	reportspostgres "github.com/statusdash/statusdash/internal/reports/postgres"
	"github.com/statusdash/statusdash/internal/settings"
	settingspostgres "github.com/statusdash/statusdash/internal/settings/postgres"
	"github.com/statusdash/statusdash/internal/version"
	"github.com/statusdash/statusdash/migrations"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	redisClient   *goredis.Client
	server        *http.Server
	metricsServer *http.Server
	metricsCancel context.CancelFunc
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := postgres.Migrate(cfg.Database.URL, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := redis.Connect(connectCtx, redis.Config{
		Addr:            cfg.Redis.Addr,
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		ConnectAttempts: cfg.Redis.ConnectAttempts,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		redisClient:   redisClient,
		metricsCancel: metricsCancel,
	}

	go app.collectDBMetrics(metricsCtx)

	router, err := app.setupRouter(connectCtx)
	if err != nil {
		db.Close()
		redisClient.Close()
		metricsCancel()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()

	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	if err := a.redisClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	a.db.Close()

	return errors.Join(errs...)
}

func (a *App) collectDBMetrics(ctx context.Context) {
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter(ctx context.Context) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		http.ServeFile(w, r, "api/openapi/openapi.yaml")
	})

	r.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>StatusDash API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
        SwaggerUIBundle({
            url: "/api/openapi.yaml",
            dom_id: '#swagger-ui',
            presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
            layout: "BaseLayout"
        });
    </script>
</body>
</html>`))
	})

	c := cache.New(a.redisClient)

	settingsRepo := settingspostgres.NewRepository(a.db)
	settingsService := settings.NewService(settingsRepo, c)
	settingsHandler := settings.NewHandler(settingsService)

	dashboardRepo := dashboardpostgres.NewRepository(a.db)
	dashboardService := dashboard.NewService(dashboardRepo, c)
	dashboardHandler := dashboard.NewHandler(dashboardService, settingsService)

	catalogRepo := catalogpostgres.NewRepository(a.db)
	catalogService := catalog.NewService(catalogRepo, dashboardService)
	catalogHandler := catalog.NewHandler(catalogService)

	notificationsRepo := notificationspostgres.NewRepository(a.db)
	notificationsService := notifications.NewService(notificationsRepo)
	notificationsHandler := notifications.NewHandler(notificationsService)

	// The dispatcher needs an SMTP relay; without one event broadcasts
	// and report forwards are silently skipped.
	var eventsNotifier events.Notifier
	var reportsNotifier reports.Notifier
	if a.config.SMTP.Host != "" {
		renderer, err := notifications.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("create notification renderer: %w", err)
		}

		sender, err := email.NewSender(email.Config{
			Host:     a.config.SMTP.Host,
			Port:     a.config.SMTP.Port,
			User:     a.config.SMTP.User,
			Password: a.config.SMTP.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create email sender: %w", err)
		}

		dispatcher := notifications.NewDispatcher(renderer, sender, settingsService, notificationsRepo, catalogService)
		eventsNotifier = dispatcher
		reportsNotifier = dispatcher
	} else {
		slog.Warn("smtp relay not configured: broadcasts will not be sent")
	}

	eventsRepo := eventspostgres.NewRepository(a.db)
	eventsService := events.NewService(eventsRepo, dashboardService, eventsNotifier)
	eventsHandler := events.NewHandler(eventsService)

	escalationRepo := escalationpostgres.NewRepository(a.db)
	escalationService := escalation.NewService(escalationRepo, settingsService)
	escalationHandler := escalation.NewHandler(escalationService)

	reportsRepo := reportspostgres.NewRepository(a.db)
	reportsStore := reports.NewScreenshotStore(a.config.Uploads.Dir)
	reportsService := reports.NewService(reportsRepo, reportsStore, settingsService, reportsNotifier)
	reportsLimiter := reports.NewRateLimiter(a.config.RateLimit.ReportsPerMinute, a.config.RateLimit.ReportsBurst)
	reportsHandler := reports.NewHandler(reportsService, reportsLimiter)

	identityRepo := identitypostgres.NewRepository(a.db)
	jwtAuth, err := identity.NewJWTAuthenticator(a.config.JWT.SecretKey, a.config.JWT.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("create jwt authenticator: %w", err)
	}
	identityService := identity.NewService(identityRepo, jwtAuth)
	identityHandler := identity.NewHandler(identityService)

	if err := identityService.EnsureAdmin(ctx, a.config.Bootstrap.AdminUsername, a.config.Bootstrap.AdminPassword); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	r.Route("/api/v1", func(r chi.Router) {
		identityHandler.RegisterRoutes(r)

		dashboardHandler.RegisterRoutes(r)
		eventsHandler.RegisterPublicRoutes(r)
		catalogHandler.RegisterPublicRoutes(r)
		escalationHandler.RegisterPublicRoutes(r)
		reportsHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(jwtAuth))

			identityHandler.RegisterProtectedRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleStaff))
				eventsHandler.RegisterAdminRoutes(r)
				reportsHandler.RegisterAdminRoutes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(httputil.RequireRole(domain.RoleAdmin))
				catalogHandler.RegisterAdminRoutes(r)
				settingsHandler.RegisterAdminRoutes(r)
				escalationHandler.RegisterAdminRoutes(r)
				notificationsHandler.RegisterAdminRoutes(r)
				identityHandler.RegisterAdminRoutes(r)
			})
		})
	})

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	if err := a.redisClient.Ping(ctx).Err(); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Cache unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
