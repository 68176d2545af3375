package app

import (
	"fmt"
	"strings"

	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/modules/auth/user"
	"github.com/yourbuzzfeed/core/internal/modules/content/article"
	"github.com/yourbuzzfeed/core/internal/modules/content/category"
	"github.com/yourbuzzfeed/core/internal/modules/content/tag"
	"github.com/yourbuzzfeed/core/internal/modules/processing/ai"
	"github.com/yourbuzzfeed/core/internal/modules/processing/image"
	"github.com/yourbuzzfeed/core/internal/modules/tasks/entertainment"
	"github.com/yourbuzzfeed/core/internal/modules/tasks/news"
	"github.com/yourbuzzfeed/core/internal/pkg/jwt"
	"github.com/yourbuzzfeed/core/internal/pkg/session"
	"github.com/yourbuzzfeed/core/internal/storage"
	"go.uber.org/zap"
)

// services is everything the routes and jobs share.
type services struct {
	store         storage.Storage
	sessions      *session.Manager
	users         *user.Service
	articles      *article.Service
	categories    *category.Service
	tags          *tag.Service
	images        *image.Finder
	ai            *ai.Service
	news          *news.Service
	entertainment *entertainment.Service
}

func (a *App) buildServices() (*services, error) {
	store := storage.New(a.db)

	sessions, err := a.newSessionManager()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	images, err := newImageFinder(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}

	gen := ai.NewGenerator(ai.NewCompleter(a.cfg.AI), a.logger)
	pub := ai.NewPublisher(store, images, a.logger)
	aiSvc := ai.NewService(gen, pub, a.cfg.Generation.Concurrency, a.logger)
	if a.cfg.AI.APIKey == "" {
		a.logger.Warn("ai api key is empty, generation endpoints will fail", zap.String("provider", a.cfg.AI.Provider))
	}

	newsSvc, err := a.newNewsService(gen, pub)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}

	return &services{
		store:         store,
		sessions:      sessions,
		users:         user.NewService(store, a.logger),
		articles:      article.NewService(store, a.cfg.Generation.Concurrency, a.logger),
		categories:    category.NewService(store),
		tags:          tag.NewService(store),
		images:        images,
		ai:            aiSvc,
		news:          newsSvc,
		entertainment: entertainment.NewService(aiSvc),
	}, nil
}

// newSessionStore picks the backing store named by session.store.
func (a *App) newSessionStore() (session.Store, error) {
	switch a.cfg.Session.Store {
	case "redis":
		if a.redis == nil {
			return nil, fmt.Errorf("session store redis needs a redis connection")
		}
		return session.NewRedisStore(a.redis), nil
	case "memory":
		return session.NewMemoryStore(), nil
	default:
		return session.NewDatabaseStore(a.db), nil
	}
}

func (a *App) newSessionManager() (*session.Manager, error) {
	store, err := a.newSessionStore()
	if err != nil {
		return nil, err
	}
	codec, err := jwt.NewCodec(a.cfg.Session.Secret)
	if err != nil {
		return nil, err
	}
	return session.NewManager(store, codec,
		session.WithTTL(a.cfg.Session.TTL),
		session.WithSecureCookie(a.cfg.IsProduction()),
	), nil
}

func newImageFinder(cfg *config.AppConfig, logger *zap.Logger) (*image.Finder, error) {
	var unsplash *image.UnsplashClient
	if key := strings.TrimSpace(cfg.Unsplash.AccessKey); key != "" {
		unsplash = image.NewUnsplashClient(key, cfg.Unsplash.BaseURL)
	}
	mirror, err := image.NewS3Mirror(cfg.S3)
	if err != nil {
		return nil, err
	}
	return image.NewFinder(unsplash, mirror, cfg.Unsplash.FallbackImage, logger), nil
}

func (a *App) newNewsService(gen *ai.Generator, pub *ai.Publisher) (*news.Service, error) {
	sources, err := news.BuildSources(a.cfg.News.Sources)
	if err != nil {
		return nil, err
	}
	seen := news.NewDatabaseSeen(a.db)
	if a.redis != nil {
		seen = news.NewRedisSeen(a.redis)
	}
	opts := news.Options{
		Concurrency: a.cfg.News.Concurrency,
		PerSource:   a.cfg.News.PerSource,
	}
	return news.NewService(sources, news.NewReadabilityExtractor(), gen, pub, seen, opts, a.logger), nil
}
