// README: Fleet service; periodic optimization passes, triggers, and execution.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gocars/internal/config"
	"gocars/internal/modules/matching"
	"gocars/internal/types"
)

// ErrOptimizationRunning is returned when a pass is requested while another
// is still in flight; callers should treat it as "try again later".
var ErrOptimizationRunning = errors.New("fleet optimization already running")

type ZoneSource interface {
	GetZones(ctx context.Context) ([]Zone, error)
}

type DemandSource interface {
	GetZoneDemand(ctx context.Context) ([]ZoneDemand, error)
}

// CandidateLister supplies the fleet-wide driver snapshot.
type CandidateLister interface {
	ListAvailable(ctx context.Context) ([]matching.DriverCandidate, error)
}

type Notifier interface {
	NotifyDriver(ctx context.Context, driverID types.ID, rec Recommendation, message string) error
}

type DispatchLog interface {
	RecordDispatch(ctx context.Context, rec Recommendation) error
}

// Advisor writes the human message attached to a repositioning notification.
// Optional; a nil advisor means notifications carry no free-text message.
type Advisor interface {
	RepositionMessage(ctx context.Context, zoneName string, travelMinutes float64) (string, error)
}

// TravelEstimator refines the straight-line travel estimate with road data.
// Optional; failures fall back to the optimizer's estimate.
type TravelEstimator interface {
	TravelEstimate(ctx context.Context, origin, dest types.Point) (time.Duration, float64, error)
}

type Service struct {
	zones      ZoneSource
	demand     DemandSource
	candidates CandidateLister
	notifier   Notifier
	dispatches DispatchLog
	advisor    Advisor
	travel     TravelEstimator
	cfg        config.FleetConfig
	logger     zerolog.Logger

	// mu enforces skip-if-running: the pass reads shared stores and triggers
	// external side effects, so overlapping runs are not allowed.
	mu sync.Mutex
}

func NewService(zones ZoneSource, demand DemandSource, candidates CandidateLister, notifier Notifier, dispatches DispatchLog, cfg config.FleetConfig, logger zerolog.Logger) *Service {
	return &Service{
		zones:      zones,
		demand:     demand,
		candidates: candidates,
		notifier:   notifier,
		dispatches: dispatches,
		cfg:        cfg,
		logger:     logger.With().Str("module", "fleet").Logger(),
	}
}

// WithAdvisor attaches an optional notification copywriter.
func (s *Service) WithAdvisor(a Advisor) *Service {
	s.advisor = a
	return s
}

// WithTravelEstimator attaches an optional road-distance oracle.
func (s *Service) WithTravelEstimator(t TravelEstimator) *Service {
	s.travel = t
	return s
}

// Run executes optimization passes on a fixed interval until ctx is done.
// A pass still in flight when the ticker fires is skipped, never queued.
func (s *Service) Run(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("fleet optimizer started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunFleetOptimization(ctx); err != nil {
				if errors.Is(err, ErrOptimizationRunning) {
					s.logger.Warn().Msg("previous pass still running, skipping tick")
					continue
				}
				// Repositioning is an optimization, not a correctness
				// requirement: log and wait for the next tick.
				s.logger.Error().Err(err).Msg("optimization pass failed, skipping")
			}
		}
	}
}

// RunFleetOptimization performs one pass: load, optimize, and, when the
// trigger conditions hold, execute the top high-priority recommendations.
func (s *Service) RunFleetOptimization(ctx context.Context) (OptimizationResult, error) {
	if !s.mu.TryLock() {
		return OptimizationResult{}, ErrOptimizationRunning
	}
	defer s.mu.Unlock()

	zones, err := s.zones.GetZones(ctx)
	if err != nil {
		return OptimizationResult{}, fmt.Errorf("load zones: %w", err)
	}
	demand, err := s.demand.GetZoneDemand(ctx)
	if err != nil {
		return OptimizationResult{}, fmt.Errorf("load zone demand: %w", err)
	}
	candidates, err := s.candidates.ListAvailable(ctx)
	if err != nil {
		return OptimizationResult{}, fmt.Errorf("list candidates: %w", err)
	}

	result := Optimize(candidates, zones, demand)
	result.Triggered = s.shouldRebalance(result)

	s.logger.Info().
		Float64("score", result.Score).
		Int("drivers", result.TotalDrivers).
		Int("recommendations", len(result.Recommendations)).
		Bool("triggered", result.Triggered).
		Msg("optimization pass complete")

	if result.Triggered {
		result.Executed = s.execute(ctx, zones, result.Recommendations)
	}
	return result, nil
}

// shouldRebalance: score below threshold, unmet demand above its ratio, or
// any high-priority recommendation.
func (s *Service) shouldRebalance(result OptimizationResult) bool {
	if result.Score < s.scoreThreshold() {
		return true
	}
	if result.UnmetDemandRatio > s.unmetRatio() {
		return true
	}
	for _, r := range result.Recommendations {
		if r.Priority == PriorityHigh {
			return true
		}
	}
	return false
}

// execute records and sends at most MaxExecutions high-priority
// recommendations. Each is persisted before the driver is notified.
func (s *Service) execute(ctx context.Context, zones []Zone, recs []Recommendation) int {
	names := make(map[types.ID]string, len(zones))
	for _, z := range zones {
		names[z.ID] = z.Name
	}

	executed := 0
	for _, rec := range recs {
		if executed >= s.maxExecutions() {
			break
		}
		if rec.Priority != PriorityHigh {
			continue
		}
		rec.TravelMinutes = s.refineTravel(ctx, rec)
		if err := s.dispatches.RecordDispatch(ctx, rec); err != nil {
			s.logger.Error().Err(err).
				Str("driver_id", string(rec.DriverID)).
				Msg("dispatch record failed, recommendation not sent")
			continue
		}
		if err := s.notifier.NotifyDriver(ctx, rec.DriverID, rec, s.advisorMessage(ctx, names[rec.ToZoneID], rec)); err != nil {
			s.logger.Error().Err(err).
				Str("driver_id", string(rec.DriverID)).
				Msg("driver notification failed")
			continue
		}
		executed++
	}
	return executed
}

func (s *Service) refineTravel(ctx context.Context, rec Recommendation) float64 {
	if s.travel == nil {
		return rec.TravelMinutes
	}
	d, _, err := s.travel.TravelEstimate(ctx, rec.From, rec.To)
	if err != nil {
		s.logger.Debug().Err(err).Msg("travel estimate failed, keeping straight-line estimate")
		return rec.TravelMinutes
	}
	return d.Minutes()
}

func (s *Service) advisorMessage(ctx context.Context, zoneName string, rec Recommendation) string {
	if s.advisor == nil {
		return ""
	}
	msg, err := s.advisor.RepositionMessage(ctx, zoneName, rec.TravelMinutes)
	if err != nil {
		s.logger.Debug().Err(err).Msg("advisor message failed, sending without copy")
		return ""
	}
	return msg
}

func (s *Service) scoreThreshold() float64 {
	if s.cfg.ScoreThreshold <= 0 {
		return 70
	}
	return s.cfg.ScoreThreshold
}

func (s *Service) unmetRatio() float64 {
	if s.cfg.UnmetDemandRatio <= 0 {
		return 0.10
	}
	return s.cfg.UnmetDemandRatio
}

func (s *Service) maxExecutions() int {
	if s.cfg.MaxExecutions <= 0 {
		return 5
	}
	return s.cfg.MaxExecutions
}
