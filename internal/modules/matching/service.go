// README: Match service; validates requests and orchestrates concurrent scoring.
package matching

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gocars/internal/config"
	"gocars/internal/modules/outcome"
	"gocars/internal/types"
)

var (
	ErrInvalidRequest        = errors.New("invalid match request")
	ErrDataSourceUnavailable = errors.New("candidate repository unavailable")
)

// CandidateRepository supplies the pool of available drivers near a pickup
// point, closest first.
type CandidateRepository interface {
	FindAvailableDrivers(ctx context.Context, center types.Point, radiusKm float64) ([]DriverCandidate, error)
}

// OutcomeSource is the read side of the outcome store. Queries must tolerate
// concurrent invocation; failures degrade to a neutral history multiplier.
type OutcomeSource interface {
	QueryByDriver(ctx context.Context, driverID types.ID, limit int) ([]outcome.Record, error)
}

// ExperimentGate reports the active ranking experiment, if any.
type ExperimentGate interface {
	ActiveVariant(ctx context.Context) (*ExperimentVariant, error)
}

type Service struct {
	engine      *Engine
	candidates  CandidateRepository
	outcomes    OutcomeSource
	experiments ExperimentGate
	cfg         config.MatchingConfig
	logger      zerolog.Logger
}

func NewService(engine *Engine, candidates CandidateRepository, outcomes OutcomeSource, experiments ExperimentGate, cfg config.MatchingConfig, logger zerolog.Logger) *Service {
	return &Service{
		engine:      engine,
		candidates:  candidates,
		outcomes:    outcomes,
		experiments: experiments,
		cfg:         cfg,
		logger:      logger.With().Str("module", "matching").Logger(),
	}
}

// FindMatches is the single entry point for ride matching. An empty candidate
// pool returns an empty slice and no error; only an unreachable candidate
// repository escalates, since no candidates means no matches are possible.
func (s *Service) FindMatches(ctx context.Context, req MatchRequest) ([]MatchScore, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	pool, err := s.candidates.FindAvailableDrivers(ctx, req.Pickup, s.cfg.SearchRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}
	if len(pool) == 0 {
		return []MatchScore{}, nil
	}

	weights := DeriveWeights(req)

	// Scoring is embarrassingly parallel: one goroutine per candidate, bounded
	// by core count. Caller cancellation propagates through the group context.
	scores := make([]MatchScore, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cand := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			history := s.driverHistory(gctx, cand.ID)
			scores[i] = s.engine.Score(req, cand, weights, history)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Rank(scores, s.activeVariant(ctx), s.cfg.TopN), nil
}

// driverHistory fetches outcome history under its own timeout. Any failure
// fails open: the driver is scored with no history rather than dropped.
func (s *Service) driverHistory(ctx context.Context, driverID types.ID) []outcome.Record {
	if s.outcomes == nil {
		return nil
	}
	hctx, cancel := context.WithTimeout(ctx, s.historyTimeout())
	defer cancel()

	history, err := s.outcomes.QueryByDriver(hctx, driverID, s.historyLimit())
	if err != nil {
		s.logger.Warn().Err(err).
			Str("driver_id", string(driverID)).
			Msg("history query failed, scoring without history")
		return nil
	}
	return history
}

func (s *Service) activeVariant(ctx context.Context) *ExperimentVariant {
	if s.experiments == nil {
		return nil
	}
	variant, err := s.experiments.ActiveVariant(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("experiment lookup failed, using default ranking")
		return nil
	}
	return variant
}

func (s *Service) historyTimeout() time.Duration {
	if s.cfg.HistoryTimeout <= 0 {
		return 150 * time.Millisecond
	}
	return s.cfg.HistoryTimeout
}

func (s *Service) historyLimit() int {
	if s.cfg.HistoryLimit <= 0 {
		return 50
	}
	return s.cfg.HistoryLimit
}

// validateRequest rejects malformed requests synchronously, before any
// scoring begins.
func validateRequest(req MatchRequest) error {
	if req.PassengerID == "" {
		return fmt.Errorf("%w: missing passenger id", ErrInvalidRequest)
	}
	if !req.Pickup.Valid() {
		return fmt.Errorf("%w: missing or out-of-range pickup coordinate", ErrInvalidRequest)
	}
	if !req.Dropoff.Valid() {
		return fmt.Errorf("%w: missing or out-of-range dropoff coordinate", ErrInvalidRequest)
	}
	if !req.Urgency.valid() {
		return fmt.Errorf("%w: unknown urgency %q", ErrInvalidRequest, req.Urgency)
	}
	for _, n := range req.Accessibility {
		if !validNeed(n) {
			return fmt.Errorf("%w: unknown accessibility need %q", ErrInvalidRequest, n)
		}
	}
	return nil
}
