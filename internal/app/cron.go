package app

import (
	"context"
	"errors"

	"github.com/yourbuzzfeed/core/internal/modules/tasks/news"
	pkgcron "github.com/yourbuzzfeed/core/internal/pkg/cron"
	"go.uber.org/zap"
)

const sweepSessionsSchedule = "@hourly"

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs(s *services) error {
	log := a.logger.Named("CronService")

	err := a.sched.Register(pkgcron.Job{
		Name:        "scrape_news",
		Description: "Scrape news sources and publish rewritten stories",
		Schedule:    a.cfg.News.Schedule,
		Fn: func(ctx context.Context) error {
			report, err := s.news.Scrape(ctx)
			if errors.Is(err, news.ErrScrapeRunning) {
				log.Info("news scrape skipped, a manual run is in progress")
				return nil
			}
			if err != nil {
				return err
			}
			log.Info("news scrape finished",
				zap.Int("published", report.Published),
				zap.Int("failed", report.Failed),
			)
			return nil
		},
	})
	if err != nil {
		return err
	}

	return a.sched.Register(pkgcron.Job{
		Name:        "sweep_sessions",
		Description: "Delete expired login sessions",
		Schedule:    sweepSessionsSchedule,
		Fn: func(ctx context.Context) error {
			n, err := s.sessions.Store().Sweep(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("expired sessions removed", zap.Int64("count", n))
			}
			return nil
		},
	})
}
