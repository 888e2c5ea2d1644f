// README: Outcome store backed by PostgreSQL; idempotent append, newest-first reads.
package outcome

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"gocars/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Append inserts a record. A second write for the same match request is a
// no-op, which makes retries from the surrounding application safe.
func (s *Store) Append(ctx context.Context, r *Record) error {
	alts := make([]string, len(r.Alternatives))
	for i, a := range r.Alternatives {
		alts[i] = string(a)
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO match_outcomes (
            match_request_id, driver_id, alternatives,
            passenger_rating, driver_rating, vehicle_type, urgency,
            actual_arrival, actual_fare, status, issues, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (match_request_id) DO NOTHING`,
		string(r.MatchRequestID),
		string(r.DriverID),
		alts,
		r.PassengerRating,
		r.DriverRating,
		r.VehicleType,
		r.Urgency,
		r.ActualArrival,
		r.ActualFare,
		string(r.Status),
		r.Issues,
		r.CreatedAt,
	)
	return err
}

// QueryByDriver returns the driver's most recent outcomes, newest first.
func (s *Store) QueryByDriver(ctx context.Context, driverID types.ID, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
        SELECT match_request_id, driver_id, alternatives,
               passenger_rating, driver_rating, vehicle_type, urgency,
               actual_arrival, actual_fare, status, issues, created_at
        FROM match_outcomes
        WHERE driver_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, string(driverID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var alts []string
		var arrival *time.Time
		var fare *float64
		err := rows.Scan(
			&r.MatchRequestID, &r.DriverID, &alts,
			&r.PassengerRating, &r.DriverRating, &r.VehicleType, &r.Urgency,
			&arrival, &fare, &r.Status, &r.Issues, &r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		r.Alternatives = make([]types.ID, len(alts))
		for i, a := range alts {
			r.Alternatives[i] = types.ID(a)
		}
		r.ActualArrival = arrival
		r.ActualFare = fare
		records = append(records, r)
	}
	return records, rows.Err()
}
