// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"

	"github.com/carterperez-dev/guardops/internal/admin"
	"github.com/carterperez-dev/guardops/internal/auth"
	"github.com/carterperez-dev/guardops/internal/config"
	"github.com/carterperez-dev/guardops/internal/core"
	"github.com/carterperez-dev/guardops/internal/health"
	"github.com/carterperez-dev/guardops/internal/incident"
	"github.com/carterperez-dev/guardops/internal/management"
	"github.com/carterperez-dev/guardops/internal/middleware"
	"github.com/carterperez-dev/guardops/internal/patrol"
	"github.com/carterperez-dev/guardops/internal/server"
	"github.com/carterperez-dev/guardops/internal/shift"
	"github.com/carterperez-dev/guardops/internal/site"
	"github.com/carterperez-dev/guardops/internal/tenant"
	"github.com/carterperez-dev/guardops/internal/user"
)

const (
	drainDelay       = 5 * time.Second
	metricsNamespace = "guardops"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // wiring code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if err := core.Migrate(ctx, db.DB); err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "HS256",
		"expiry", jwtManager.Expiry(),
	)

	metrics := core.NewMetrics(metricsNamespace)

	userSvc := user.NewService(user.NewRepository(db.DB))
	authSvc := auth.NewService(jwtManager, userSvc).WithRecorder(metrics)
	tenantSvc := tenant.NewService(tenant.NewRepository(db.DB))
	siteSvc := site.NewService(site.NewRepository(db.DB))
	shiftSvc := shift.NewService(shift.NewRepository(db.DB), siteSvc, metrics)
	patrolSvc := patrol.NewService(patrol.NewRepository(db.DB), shiftSvc, siteSvc)
	incidentSvc := incident.NewService(incident.NewRepository(db.DB), shiftSvc, siteSvc)
	managementSvc := management.NewService(management.NewRepository(db.DB))

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics(metrics))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			BypassFunc: func(r *http.Request) bool {
				return health.IsProbe(r) || r.URL.Path == "/metrics"
			},
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginBurst,
		),
		KeyFunc: middleware.KeyWithScope("login", middleware.KeyByIP),
		OnLimited: func(w http.ResponseWriter, _ *http.Request, res *redis_rate.Result) {
			metrics.LoginResult("throttled")
			middleware.WriteRateLimitExceeded(w, res)
		},
	})

	callerLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.CallerRequests,
			cfg.RateLimit.CallerBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc: middleware.KeyWithScope("caller", middleware.KeyByPrincipal),
	})

	server.Routes{
		Verifier:      jwtManager,
		Denials:       metrics,
		LoginLimiter:  loginLimiter.Handler,
		CallerLimiter: callerLimiter.Handler,
	}.Mount(router, server.Handlers{
		Health:     healthHandler,
		Auth:       auth.NewHandler(authSvc),
		User:       user.NewHandler(userSvc),
		Tenant:     tenant.NewHandler(tenantSvc),
		Site:       site.NewHandler(siteSvc),
		Shift:      shift.NewHandler(shiftSvc),
		Patrol:     patrol.NewHandler(patrolSvc),
		Incident:   incident.NewHandler(incidentSvc),
		Management: management.NewHandler(managementSvc),
		Admin: admin.NewHandler(admin.HandlerConfig{
			DBStats:    db.Stats,
			RedisStats: redis.PoolStats,
			DBPing:     db.Ping,
			RedisPing:  redis.Ping,
			Tenants:    tenantSvc,
		}),
		Metrics: metrics.Handler(),
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
