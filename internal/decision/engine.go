// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/admatch/internal/metrics"
	"github.com/tomtom215/admatch/internal/models"
)

// AdvertiserLookup resolves advertisers. Unknown ids return (nil, nil).
type AdvertiserLookup interface {
	Advertiser(ctx context.Context, id string) (*models.Advertiser, error)
}

// Catalog is the read side of the item catalog used by the engine.
type Catalog interface {
	ItemSource
	AdvertiserLookup
}

// Engine runs the v2 decision pipeline:
// opportunity, candidates, ranking, then selection.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	scorer      *OpportunityScorer
	generator   *CandidateGenerator
	ranker      *Ranker
	selector    Selector
	advertisers AdvertiserLookup
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSelector replaces the epsilon-greedy selector.
func WithSelector(s Selector) Option {
	return func(e *Engine) {
		e.selector = s
	}
}

// NewEngine creates a decision engine. A nil translator passes text
// through unchanged.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, translator Translator, catalog Catalog, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", ErrInvalidConfig)
	}
	if translator == nil {
		translator = passthrough{}
	}

	cfg = cfg.Clone()
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	e := &Engine{
		config:      cfg,
		logger:      logger.With().Str("component", "decision").Logger(),
		scorer:      NewOpportunityScorer(cfg.Keywords, cfg.Thresholds.ShortTextTokens),
		generator:   NewCandidateGenerator(translator, catalog, cfg.Candidates),
		ranker:      NewRanker(cfg.Ranking),
		selector:    NewEpsilonGreedy(cfg.Exploration, NewLockedRand(seed)),
		advertisers: catalog,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// ScoreOpportunity classifies a single message.
func (e *Engine) ScoreOpportunity(text, language string) models.Opportunity {
	return e.scorer.Score(text, language)
}

// Decide runs the pipeline for one message.
//
// Low opportunity and empty candidate sets are normal outcomes with a nil
// item. Errors are returned only for catalog or advertiser fetch failures
// and context cancellation.
func (e *Engine) Decide(ctx context.Context, req *models.DecisionRequest) (*models.Decision, error) {
	start := time.Now()
	logger := e.logger.With().Str("request_id", req.RequestID).Logger()

	decision := &models.Decision{
		Meta: models.DecisionMetadata{
			DecisionID: uuid.NewString(),
			Strategy:   models.StrategyV2,
		},
	}
	meta := &decision.Meta

	// Opportunity
	phaseStart := time.Now()
	opp := e.scorer.Score(req.Text, req.Language)
	meta.Timings.OpportunityMS = observePhase("opportunity", phaseStart)
	meta.OpportunityScore = opp.Score
	meta.Intent = opp.Intent
	metrics.RecordOpportunity(string(opp.Intent))

	if opp.Score < e.config.Thresholds.Low {
		return e.finish(decision, models.OutcomeLowOpportunity, start, logger), nil
	}

	// Candidates
	phaseStart = time.Now()
	candidates, err := e.generator.Generate(ctx, req.Text, req.Language, req.Formats)
	meta.Timings.CandidatesMS = observePhase("candidates", phaseStart)
	if err != nil {
		return nil, fmt.Errorf("generate candidates: %w", err)
	}
	meta.CandidateCount = len(candidates)
	metrics.RecordCandidates(len(candidates))

	if len(candidates) == 0 {
		return e.finish(decision, models.OutcomeNoCandidates, start, logger), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Ranking
	phaseStart = time.Now()
	ranked := e.ranker.Rank(candidates, req.RecentItemIDs, req.RecentAdvertiserIDs)
	meta.Timings.RankingMS = observePhase("ranking", phaseStart)

	// Selection
	phaseStart = time.Now()
	sel, ok := e.selector.Select(ranked)
	meta.Timings.SelectionMS = observePhase("selection", phaseStart)
	if !ok {
		return e.finish(decision, models.OutcomeNoSelection, start, logger), nil
	}
	if sel.Explored {
		metrics.RecordExploration()
	}

	advertiser, err := e.advertisers.Advertiser(ctx, sel.Result.Item.AdvertiserID)
	if err != nil {
		return nil, fmt.Errorf("lookup advertiser %s: %w", sel.Result.Item.AdvertiserID, err)
	}

	decision.Item = ResolveItem(sel.Result.Item, req.Language, advertiser)
	meta.FinalEV = sel.Result.ExpectedValue
	meta.Explored = sel.Explored
	meta.Breakdown = models.ScoreBreakdown{
		BaseScore:      sel.Result.BaseCTR * sel.Result.CPC,
		FatiguePenalty: sel.Result.FatiguePenalty,
		FormatPenalty:  sel.Result.FormatPenalty,
	}

	return e.finish(decision, models.OutcomeShown, start, logger), nil
}

//nolint:gocritic // logger passed by value for zerolog chaining
func (e *Engine) finish(d *models.Decision, outcome models.Outcome, start time.Time, logger zerolog.Logger) *models.Decision {
	d.Meta.Outcome = outcome
	d.Meta.Timings.TotalMS = observePhase("total", start)

	event := logger.Debug().
		Str("decision_id", d.Meta.DecisionID).
		Str("outcome", string(outcome)).
		Str("intent", string(d.Meta.Intent)).
		Float64("opportunity", d.Meta.OpportunityScore).
		Int("candidates", d.Meta.CandidateCount).
		Float64("total_ms", d.Meta.Timings.TotalMS)
	if d.Item != nil {
		event = event.Str("item_id", d.Item.ID).Bool("explored", d.Meta.Explored)
	}
	event.Msg("decision complete")
	return d
}

// observePhase records the phase histogram and returns elapsed milliseconds.
func observePhase(phase string, start time.Time) float64 {
	elapsed := time.Since(start)
	metrics.RecordDecisionPhase(phase, elapsed)
	return Milliseconds(elapsed)
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

type passthrough struct{}

func (passthrough) ToEnglish(_ context.Context, text, _ string) string {
	return text
}
