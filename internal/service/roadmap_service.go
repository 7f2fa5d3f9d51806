package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goal-roadmap/internal/cache"
	"goal-roadmap/internal/domain"
	"goal-roadmap/internal/llm"
	"goal-roadmap/internal/metrics"
	"goal-roadmap/internal/repository"
)

var (
	ErrMissingGoal  = errors.New("missing learning goal")
	ErrEmptyRoadmap = errors.New("roadmap has no topics")
)

// SourceFinder busca material de lectura para un tema.
type SourceFinder interface {
	FindSources(ctx context.Context, topic domain.Topic) ([]domain.Source, error)
}

// RoadmapService genera roadmaps con el LLM, les agrega fuentes y los persiste.
type RoadmapService struct {
	llmClient llm.LLMClient
	repo      repository.RoadmapRepository
	cache     cache.TopicCache
	finder    SourceFinder
	logger    *zap.Logger
	now       func() time.Time

	// sourceBudget acota la búsqueda de fuentes de un roadmap completo. Cero es sin límite.
	sourceBudget time.Duration
}

// NewRoadmapService construye el servicio. cache y finder son opcionales.
func NewRoadmapService(
	logger *zap.Logger,
	llmClient llm.LLMClient,
	repo repository.RoadmapRepository,
	topicCache cache.TopicCache,
	finder SourceFinder,
) *RoadmapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoadmapService{
		llmClient: llmClient,
		repo:      repo,
		cache:     topicCache,
		finder:    finder,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithSourceBudget fija cuánto puede durar la búsqueda de fuentes de un roadmap.
// Al agotarse, los temas que faltan quedan sin fuentes.
func (s *RoadmapService) WithSourceBudget(d time.Duration) *RoadmapService {
	s.sourceBudget = d
	return s
}

// Generate arma el roadmap de goal para userID.
func (s *RoadmapService) Generate(ctx context.Context, goal, userID string) (domain.Roadmap, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return domain.Roadmap{}, ErrMissingGoal
	}
	if strings.TrimSpace(userID) == "" {
		userID = domain.DefaultUserID
	}

	start := time.Now()
	result := metrics.ResultOK
	defer func() {
		metrics.RoadmapGenerations.WithLabelValues(result).Inc()
		metrics.RoadmapGenerationDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}()

	topics, cached := s.cachedTopics(ctx, goal)
	if cached {
		result = metrics.ResultCacheHit
	} else {
		raw, err := s.llmClient.Generate(ctx, buildRoadmapPrompt(goal))
		if err != nil {
			result = metrics.ResultLLMError
			return domain.Roadmap{}, fmt.Errorf("llm generate: %w", err)
		}

		parsed, err := parseRoadmapTopics(raw)
		if err != nil {
			result = metrics.ResultParseError
			s.logger.Warn("roadmap parse failed", zap.String("goal", goal), zap.Error(err))
			return domain.Roadmap{}, fmt.Errorf("parse llm response: %w", err)
		}

		topics = normalizeTopics(parsed)
		if len(topics) == 0 {
			result = metrics.ResultEmpty
			return domain.Roadmap{}, ErrEmptyRoadmap
		}

		if err := s.attachSources(ctx, topics); err != nil {
			return domain.Roadmap{}, err
		}
		s.storeInCache(ctx, goal, topics)
	}

	roadmap := domain.Roadmap{
		ID:        uuid.NewString(),
		UserID:    userID,
		Goal:      goal,
		Topics:    topics,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, roadmap); err != nil {
		result = metrics.ResultStoreError
		return domain.Roadmap{}, fmt.Errorf("store roadmap: %w", err)
	}

	metrics.RoadmapTopics.Observe(float64(len(topics)))
	s.logger.Info("roadmap generated",
		zap.String("roadmap_id", roadmap.ID),
		zap.String("user_id", userID),
		zap.Int("topics", len(topics)),
		zap.Bool("cached", cached),
	)
	return roadmap, nil
}

// Get devuelve un roadmap guardado.
func (s *RoadmapService) Get(ctx context.Context, id string) (domain.Roadmap, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser devuelve los roadmaps más recientes de userID.
func (s *RoadmapService) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Roadmap, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *RoadmapService) cachedTopics(ctx context.Context, goal string) ([]domain.Topic, bool) {
	if s.cache == nil {
		return nil, false
	}
	topics, ok, err := s.cache.Get(ctx, goal)
	if err != nil {
		s.logger.Warn("roadmap cache get failed", zap.String("goal", goal), zap.Error(err))
		return nil, false
	}
	if !ok || len(topics) == 0 {
		return nil, false
	}
	return topics, true
}

func (s *RoadmapService) storeInCache(ctx context.Context, goal string, topics []domain.Topic) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, goal, topics); err != nil {
		s.logger.Warn("roadmap cache set failed", zap.String("goal", goal), zap.Error(err))
	}
}

// attachSources completa Sources de cada tema. Un fallo de búsqueda no invalida el roadmap;
// solo la cancelación del contexto del llamador corta el proceso.
func (s *RoadmapService) attachSources(ctx context.Context, topics []domain.Topic) error {
	if s.finder == nil {
		return nil
	}
	sctx := ctx
	if s.sourceBudget > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, s.sourceBudget)
		defer cancel()
	}
	for i := range topics {
		if ctx.Err() != nil {
			return fmt.Errorf("find sources: %w", ctx.Err())
		}
		if sctx.Err() != nil {
			s.logger.Warn("source lookup budget exhausted",
				zap.Duration("budget", s.sourceBudget),
				zap.Int("topics_without_sources", len(topics)-i),
			)
			return nil
		}
		found, err := s.finder.FindSources(sctx, topics[i])
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("find sources: %w", ctx.Err())
			}
			s.logger.Warn("find sources failed", zap.String("topic_id", topics[i].ID), zap.Error(err))
			continue
		}
		topics[i].Sources = found
		metrics.TopicSourcesFound.Add(float64(len(found)))
	}
	return nil
}
