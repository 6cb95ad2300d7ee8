// Package analyzer wires the query pipeline end to end: spelling
// correction, tokenization, contextual refinement, semantic
// interpretation, and scored recommendation.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mercadito/search-engine/internal/cache"
	"github.com/mercadito/search-engine/internal/config"
	"github.com/mercadito/search-engine/internal/corrector"
	"github.com/mercadito/search-engine/internal/interpret"
	"github.com/mercadito/search-engine/internal/observability"
	"github.com/mercadito/search-engine/internal/recommend"
	"github.com/mercadito/search-engine/internal/spanish"
	"github.com/mercadito/search-engine/internal/store"
	"github.com/mercadito/search-engine/internal/token"
)

// Result is the complete outcome of analyzing one query.
type Result struct {
	Query            string                     `json:"query"`
	Corrections      corrector.QueryResult      `json:"corrections"`
	Interpretation   interpret.Interpretation   `json:"interpretation"`
	Recommendations  []recommend.Recommendation `json:"recommendations"`
	FilterExpression string                     `json:"filter_expression"`
	Message          string                     `json:"message,omitempty"`
	ElapsedMS        float64                    `json:"elapsed_ms"`
	Cached           bool                       `json:"cached,omitempty"`
}

// Service runs the pipeline. Stages run strictly in order within a
// query; concurrent queries share only the vocabulary snapshot, the
// corrector memo, and the response cache.
type Service struct {
	logger      *observability.Logger
	provider    *store.SnapshotProvider
	store       store.Store
	corrector   *corrector.Corrector
	tokenizer   *token.Tokenizer
	refiner     *token.Refiner
	interpreter *interpret.Interpreter
	engine      *recommend.Engine
	cache       cache.Client
	cacheTTL    time.Duration
}

// New builds the pipeline over the store. responseCache may be nil to
// disable caching.
func New(logger *observability.Logger, st store.Store, catalog store.Catalog, cfg *config.Config, responseCache cache.Client) *Service {
	provider := store.NewSnapshotProvider(catalog, cfg.Vocabulary.RefreshTTL, logger, spanish.StaticWords())
	corr := corrector.New(logger, corrector.Config{
		MaxDistance:         cfg.Corrector.MaxDistance,
		ConfidenceThreshold: cfg.Corrector.ConfidenceThreshold,
	})

	return &Service{
		logger:      logger.WithComponent("analyzer"),
		provider:    provider,
		store:       st,
		corrector:   corr,
		tokenizer:   token.NewTokenizer(logger),
		refiner:     token.NewRefiner(logger),
		interpreter: interpret.New(logger, corr),
		engine: recommend.New(logger, st, recommend.Config{
			DefaultLimit: cfg.Recommend.DefaultLimit,
			MaxLimit:     cfg.Recommend.MaxLimit,
		}),
		cache:    responseCache,
		cacheTTL: cfg.Cache.TTL,
	}
}

// Analyze runs the full pipeline for one query. It never returns an
// error: failed stages degrade to best-effort output and an
// unintelligible query still yields popularity recommendations.
func (s *Service) Analyze(ctx context.Context, query string, limit int) Result {
	start := time.Now()

	if cached, ok := s.fromCache(ctx, query, limit); ok {
		cached.Cached = true
		cached.ElapsedMS = float64(time.Since(start).Microseconds()) / 1000
		return cached
	}

	vocab := s.provider.Vocabulary(ctx)

	corrections := s.corrector.CorrectQuery(vocab, query)
	stream := s.refiner.Refine(s.tokenizer.Tokenize(vocab, corrections.CorrectedQuery))
	interpretation := s.interpreter.Interpret(vocab, stream)
	recommendations := s.engine.Recommend(ctx, vocab, interpretation, limit)

	result := Result{
		Query:            query,
		Corrections:      corrections,
		Interpretation:   interpretation,
		Recommendations:  recommendations,
		FilterExpression: interpretation.FilterExpression(),
		ElapsedMS:        float64(time.Since(start).Microseconds()) / 1000,
	}
	if len(recommendations) == 0 {
		result.Message = "No encontramos productos para tu busqueda"
	}

	s.logger.Info().
		Str("query", query).
		Bool("corrected", corrections.Applied).
		Int("tokens", len(stream.Tokens)).
		Int("results", len(recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("query analyzed")

	s.toCache(ctx, query, limit, result)
	return result
}

// Stats reports store contents for health and metrics surfaces.
func (s *Service) Stats(ctx context.Context) (store.Stats, error) {
	return s.store.Stats(ctx)
}

// RefreshVocabulary forces a vocabulary snapshot rebuild and drops
// cached analyses.
func (s *Service) RefreshVocabulary(ctx context.Context) error {
	if _, err := s.provider.Refresh(ctx); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPrefix(ctx, "analyze:"); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drop cached analyses")
		}
	}
	return nil
}

func (s *Service) fromCache(ctx context.Context, query string, limit int) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	data, err := s.cache.Get(ctx, cache.AnalyzeKey(query, limit))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("cache get failed")
		}
		return Result{}, false
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn().Err(err).Msg("cached result corrupt, dropping")
		_ = s.cache.Delete(ctx, cache.AnalyzeKey(query, limit))
		return Result{}, false
	}
	return result, true
}

func (s *Service) toCache(ctx context.Context, query string, limit int, result Result) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.AnalyzeKey(query, limit), data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("cache set failed")
	}
}
