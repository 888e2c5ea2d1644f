// README: Outcome service validates and persists realized match results.
package outcome

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"gocars/internal/types"
)

var (
	ErrBadRecord = errors.New("invalid outcome record")
)

// Sink is the append side of the store, kept narrow so tests can fake it.
type Sink interface {
	Append(ctx context.Context, r *Record) error
}

type Source interface {
	QueryByDriver(ctx context.Context, driverID types.ID, limit int) ([]Record, error)
}

// Repository is what the service needs from persistence; *Store satisfies it.
type Repository interface {
	Sink
	Source
}

type Service struct {
	store  Repository
	logger zerolog.Logger
}

func NewService(store Repository, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("module", "outcome").Logger(),
	}
}

// Record persists the result of a completed match. Writes are idempotent per
// match request id; ratings outside 0..5 are rejected.
func (s *Service) Record(ctx context.Context, r Record) error {
	if r.MatchRequestID == "" || r.DriverID == "" {
		return ErrBadRecord
	}
	if !validStatus(r.Status) {
		return ErrBadRecord
	}
	if r.PassengerRating < 0 || r.PassengerRating > 5 || r.DriverRating < 0 || r.DriverRating > 5 {
		return ErrBadRecord
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if err := s.store.Append(ctx, &r); err != nil {
		s.logger.Error().Err(err).
			Str("match_request_id", string(r.MatchRequestID)).
			Str("driver_id", string(r.DriverID)).
			Msg("append outcome failed")
		return err
	}
	return nil
}

// QueryByDriver exposes the read side for the history analyzer.
func (s *Service) QueryByDriver(ctx context.Context, driverID types.ID, limit int) ([]Record, error) {
	return s.store.QueryByDriver(ctx, driverID, limit)
}
