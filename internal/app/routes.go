package app

import (
	"time"

	"github.com/yourbuzzfeed/core/internal/middleware"
	"github.com/yourbuzzfeed/core/internal/modules/auth/user"
	"github.com/yourbuzzfeed/core/internal/modules/content/article"
	"github.com/yourbuzzfeed/core/internal/modules/content/category"
	"github.com/yourbuzzfeed/core/internal/modules/content/tag"
	"github.com/yourbuzzfeed/core/internal/modules/processing/ai"
	"github.com/yourbuzzfeed/core/internal/modules/processing/image"
	"github.com/yourbuzzfeed/core/internal/modules/syndication/feed"
	"github.com/yourbuzzfeed/core/internal/modules/syndication/sitemap"
	"github.com/yourbuzzfeed/core/internal/modules/system/core/health"
	"github.com/yourbuzzfeed/core/internal/modules/tasks/crontask"
	"github.com/yourbuzzfeed/core/internal/modules/tasks/entertainment"
	"github.com/yourbuzzfeed/core/internal/modules/tasks/news"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

func (a *App) registerRoutes(s *services) {
	api := a.router.Group("/api")
	authMW := middleware.Auth(s.sessions)

	health.NewHandler(s.store, a.redis, a.started).RegisterRoutes(api)

	user.NewHandler(s.users, s.sessions, a.logger,
		user.WithLoginLimiter(middleware.RateLimit(a.redis, "login", loginRateLimit, loginRateWindow, a.logger)),
		user.WithEmergencyAdmin(a.cfg.Auth.EmergencyAdmin),
	).RegisterRoutes(api, authMW)

	category.NewHandler(s.categories).RegisterRoutes(api, authMW)
	article.NewHandler(s.articles).RegisterRoutes(api, authMW)
	tag.NewHandler(s.tags).RegisterRoutes(api, authMW)

	ai.NewHandler(s.ai).RegisterRoutes(api, authMW)
	image.NewHandler(s.images).RegisterRoutes(api, authMW)

	news.NewHandler(s.news).RegisterRoutes(api, authMW)
	entertainment.NewHandler(s.entertainment).RegisterRoutes(api, authMW)
	crontask.NewHandler(a.sched).RegisterRoutes(api, authMW)

	root := a.router.Group("")
	feed.NewHandler(s.store, a.cfg.Site).RegisterRoutes(root)
	sitemap.NewHandler(s.store, a.cfg.Site).RegisterRoutes(root)
}
