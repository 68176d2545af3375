package ai

import (
	"context"
	"strings"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"github.com/yourbuzzfeed/core/internal/pkg/response"
	"github.com/yourbuzzfeed/core/internal/pkg/taskgroup"
	"go.uber.org/zap"
)

// Service handles AI generation, with and without persistence.
type Service struct {
	gen         *Generator
	pub         *Publisher
	concurrency int
	log         *zap.Logger
}

func NewService(gen *Generator, pub *Publisher, concurrency int, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, pub: pub, concurrency: concurrency, log: log.Named("ai")}
}

func (s *Service) GenerateContent(ctx context.Context, req ContentRequest) (*Generated, error) {
	return s.gen.Content(ctx, req)
}

func (s *Service) GenerateListicle(ctx context.Context, req ListicleRequest) (*Generated, error) {
	return s.gen.Listicle(ctx, req)
}

func (s *Service) GenerateIdeas(ctx context.Context, category string, count int) ([]string, error) {
	return s.gen.Ideas(ctx, category, count)
}

func (s *Service) CreateArticle(ctx context.Context, authorID uint, req ContentRequest) (*models.Article, error) {
	g, err := s.gen.Content(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.pub.Publish(ctx, authorID, g)
}

func (s *Service) CreateListicle(ctx context.Context, authorID uint, req ListicleRequest) (*models.Article, error) {
	g, err := s.gen.Listicle(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.pub.Publish(ctx, authorID, g)
}

// Create generates and publishes one topic according to its type.
func (s *Service) Create(ctx context.Context, authorID uint, t BatchTopic) (*models.Article, error) {
	if t.Type == models.ContentTypeListicle {
		return s.CreateListicle(ctx, authorID, ListicleRequest{Topic: t.Topic, Category: t.Category})
	}
	return s.CreateArticle(ctx, authorID, ContentRequest{Topic: t.Topic, Category: t.Category})
}

// TopicsFromIdeas asks for count ideas in category and turns them into
// batch topics of the given type.
func (s *Service) TopicsFromIdeas(ctx context.Context, category string, count int, contentType models.ContentType) ([]BatchTopic, error) {
	ideas, err := s.gen.Ideas(ctx, category, count)
	if err != nil {
		return nil, err
	}
	topics := make([]BatchTopic, len(ideas))
	for i, idea := range ideas {
		topics[i] = BatchTopic{Topic: idea, Category: category, Type: contentType}
	}
	return topics, nil
}

// Batch creates every topic with bounded concurrency. Failures are recorded
// per item and never stop the rest.
func (s *Service) Batch(ctx context.Context, authorID uint, topics []BatchTopic) response.BatchResult[BatchItem] {
	results := taskgroup.Run(ctx, s.concurrency, topics, func(ctx context.Context, t BatchTopic) (*models.Article, error) {
		return s.Create(ctx, authorID, t)
	})

	out := response.BatchResult[BatchItem]{Results: make([]BatchItem, len(results))}
	for i, r := range results {
		item := BatchItem{Topic: topics[i].Topic, Success: r.OK()}
		if r.OK() {
			item.ArticleID = r.Value.ID
			item.Slug = r.Value.Slug
		} else {
			item.Error = apperr.PublicMessage(r.Err)
			s.log.Warn("batch item failed", zap.String("topic", topics[i].Topic), zap.Error(r.Err))
		}
		out.Results[i] = item
	}
	out.Successful, out.Failed = taskgroup.Count(results)
	s.log.Info("batch finished", zap.Int("successful", out.Successful), zap.Int("failed", out.Failed))
	return out
}

func (s *Service) batchGenerate(ctx context.Context, authorID uint, dto batchGenerateDTO) (response.BatchResult[BatchItem], error) {
	topics := dto.Items
	if len(topics) == 0 {
		category := strings.TrimSpace(dto.Category)
		if category == "" {
			return response.BatchResult[BatchItem]{}, apperr.Validation("Provide items or a category")
		}
		var err error
		topics, err = s.TopicsFromIdeas(ctx, category, dto.Count, models.ContentTypeArticle)
		if err != nil {
			return response.BatchResult[BatchItem]{}, err
		}
	}
	return s.Batch(ctx, authorID, topics), nil
}
