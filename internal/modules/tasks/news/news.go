// Package news scrapes configured feeds and republishes the top stories as
// rewritten news articles.
package news

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/yourbuzzfeed/core/internal/modules/processing/ai"
	"github.com/yourbuzzfeed/core/internal/modules/processing/markdown"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"github.com/yourbuzzfeed/core/internal/pkg/taskgroup"
	"go.uber.org/zap"
)

var ErrScrapeRunning = apperr.Conflict("News scrape already running")

// SourceReport is the outcome for one source.
type SourceReport struct {
	Source    string   `json:"source"`
	Fetched   int      `json:"fetched"`
	Published int      `json:"published"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Articles  []string `json:"articles"`
	Error     string   `json:"error,omitempty"`
}

// Report summarises one scrape run.
type Report struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Published  int            `json:"published"`
	Failed     int            `json:"failed"`
	Sources    []SourceReport `json:"sources"`
}

type Service struct {
	sources     []Source
	extractor   Extractor
	gen         *ai.Generator
	pub         *ai.Publisher
	seen        SeenSet
	concurrency int
	perSource   int
	log         *zap.Logger

	running sync.Mutex
}

// Options carries the scrape tuning knobs from config.
type Options struct {
	Concurrency int
	PerSource   int
}

func NewService(sources []Source, extractor Extractor, gen *ai.Generator, pub *ai.Publisher, seen SeenSet, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if seen == nil {
		seen = NewMemorySeen()
	}
	return &Service{
		sources:     sources,
		extractor:   extractor,
		gen:         gen,
		pub:         pub,
		seen:        seen,
		concurrency: opts.Concurrency,
		perSource:   opts.PerSource,
		log:         log.Named("news"),
	}
}

// Scrape runs every source concurrently. A failing source is reported and
// never blocks the others. Only one scrape runs at a time.
func (s *Service) Scrape(ctx context.Context) (*Report, error) {
	if !s.running.TryLock() {
		return nil, ErrScrapeRunning
	}
	defer s.running.Unlock()

	report := &Report{StartedAt: time.Now()}
	results := taskgroup.Run(ctx, s.concurrency, s.sources, func(ctx context.Context, src Source) (SourceReport, error) {
		return s.scrapeSource(ctx, src), nil
	})

	report.Sources = make([]SourceReport, len(results))
	for i, r := range results {
		sr := r.Value
		if r.Err != nil {
			sr = SourceReport{Source: s.sources[i].Name(), Error: r.Err.Error(), Articles: []string{}}
		}
		report.Sources[i] = sr
		report.Published += sr.Published
		report.Failed += sr.Failed
		if sr.Error != "" {
			report.Failed++
		}
	}
	report.FinishedAt = time.Now()
	s.log.Info("scrape finished",
		zap.Int("published", report.Published),
		zap.Int("failed", report.Failed),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))
	return report, nil
}

func (s *Service) scrapeSource(ctx context.Context, src Source) SourceReport {
	sr := SourceReport{Source: src.Name(), Articles: []string{}}
	log := s.log.With(zap.String("source", src.Name()))

	stories, err := src.Fetch(ctx, s.perSource)
	if err != nil {
		log.Warn("fetch failed", zap.Error(err))
		sr.Error = "Failed to fetch source"
		return sr
	}
	sr.Fetched = len(stories)

	for _, story := range stories {
		fresh, err := s.seen.Claim(ctx, story.URL)
		if err != nil {
			log.Warn("seen check failed", zap.String("url", story.URL), zap.Error(err))
		}
		if err == nil && !fresh {
			sr.Skipped++
			continue
		}
		slug, err := s.publish(ctx, src, story)
		if err != nil {
			sr.Failed++
			log.Warn("story failed", zap.String("url", story.URL), zap.Error(err))
			if rerr := s.seen.Release(ctx, story.URL); rerr != nil {
				log.Warn("release failed", zap.String("url", story.URL), zap.Error(rerr))
			}
			continue
		}
		sr.Published++
		sr.Articles = append(sr.Articles, slug)
	}
	return sr
}

func (s *Service) publish(ctx context.Context, src Source, story Story) (string, error) {
	text, err := s.extractor.Extract(ctx, story.URL)
	if err != nil || strings.TrimSpace(text) == "" {
		text = markdown.PlainText(story.Summary)
	}
	if strings.TrimSpace(text) == "" {
		if err == nil {
			err = errors.New("no readable text")
		}
		return "", err
	}

	g, err := s.gen.RewriteNews(ctx, ai.NewsInput{
		Title:  story.Title,
		Source: src.Name(),
		URL:    story.URL,
		Text:   text,
	})
	if err != nil {
		return "", err
	}
	g.Category = src.Category()
	a, err := s.pub.Publish(ctx, 0, g)
	if err != nil {
		return "", err
	}
	return a.Slug, nil
}
