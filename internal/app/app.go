package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/database"
	"github.com/yourbuzzfeed/core/internal/middleware"
	pkgcron "github.com/yourbuzzfeed/core/internal/pkg/cron"
	pkgredis "github.com/yourbuzzfeed/core/internal/pkg/redis"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	db      *gorm.DB
	redis   *pkgredis.Client
	logger  *zap.Logger
	sched   *pkgcron.Scheduler
	cancel  context.CancelFunc
	started time.Time
}

// New initializes the application: DB → Redis → services → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.Redis.URL != "" {
		rc, err = pkgredis.Connect(cfg.Redis.URL)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("redis: %w", err)
		}
	} else {
		logger.Info("redis disabled, login rate limiting is off")
	}

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	// ClientIP only honours forwarding headers from these addresses.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		if rc != nil {
			_ = rc.Close()
		}
		_ = database.Close(db)
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.InternalError(c, fmt.Errorf("panic: %v", recovered))
	}))
	router.Use(middleware.Logger(logger.Named("http")))
	router.Use(cors.New(corsConfig(cfg)))
	router.NoRoute(response.NotFound)
	router.NoMethod(response.MethodNotAllowed)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:     cfg,
		router:  router,
		db:      db,
		redis:   rc,
		logger:  logger,
		sched:   pkgcron.New(logger.Named("cron")),
		cancel:  cancel,
		started: time.Now(),
	}

	svcs, err := a.buildServices()
	if err != nil {
		a.Shutdown()
		return nil, err
	}
	a.registerRoutes(svcs)
	if err := a.registerCronJobs(svcs); err != nil {
		a.Shutdown()
		return nil, fmt.Errorf("cron: %w", err)
	}

	if _, err := svcs.users.EnsureSeedAdmin(ctx, cfg.Admin); err != nil {
		a.Shutdown()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	a.sched.Start(ctx)
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops the scheduler, waits for running jobs and closes the
// database and Redis connections.
func (a *App) Shutdown() {
	a.cancel()
	select {
	case <-a.sched.Stop().Done():
	case <-time.After(10 * time.Second):
		a.logger.Warn("cron jobs still running at shutdown")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
