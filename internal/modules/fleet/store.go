// README: Fleet store; zone configuration, demand snapshots, and dispatch log in PostgreSQL.
package fleet

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// GetZones loads operator-defined zone configuration. Polygons are stored as
// JSONB vertex arrays; zones without one are centroid-only.
func (s *Store) GetZones(ctx context.Context) ([]Zone, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, name, centroid_lat, centroid_lng, polygon,
               priority_weight, demand_multiplier, min_drivers, max_drivers
        FROM zones
        ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		var polygon []byte
		err := rows.Scan(&z.ID, &z.Name, &z.Centroid.Lat, &z.Centroid.Lng, &polygon,
			&z.PriorityWeight, &z.DemandMultiplier, &z.MinDrivers, &z.MaxDrivers)
		if err != nil {
			return nil, err
		}
		if len(polygon) > 0 {
			if err := json.Unmarshal(polygon, &z.Polygon); err != nil {
				return nil, err
			}
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// GetZoneDemand returns the latest demand snapshot per zone.
func (s *Store) GetZoneDemand(ctx context.Context) ([]ZoneDemand, error) {
	rows, err := s.db.Query(ctx, `
        SELECT DISTINCT ON (zone_id) zone_id, expected, unmet
        FROM zone_demand
        ORDER BY zone_id, captured_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var demand []ZoneDemand
	for rows.Next() {
		var d ZoneDemand
		if err := rows.Scan(&d.ZoneID, &d.Expected, &d.Unmet); err != nil {
			return nil, err
		}
		demand = append(demand, d)
	}
	return demand, rows.Err()
}

// RecordDispatch persists an executed recommendation before the driver is
// notified, so a notification failure never loses the audit trail.
func (s *Store) RecordDispatch(ctx context.Context, rec Recommendation) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO fleet_dispatches (
            driver_id, from_zone_id, to_zone_id, priority,
            from_lat, from_lng, to_lat, to_lng,
            travel_minutes, confidence, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(rec.DriverID),
		string(rec.FromZoneID),
		string(rec.ToZoneID),
		string(rec.Priority),
		rec.From.Lat, rec.From.Lng,
		rec.To.Lat, rec.To.Lng,
		rec.TravelMinutes,
		rec.Confidence,
		time.Now(),
	)
	return err
}
