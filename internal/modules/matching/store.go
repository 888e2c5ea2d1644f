// README: Candidate store; Redis GEO index for proximity, PostgreSQL for profiles.
package matching

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"gocars/internal/types"
)

const driverGeoKey = "matching:drivers"

// driverColumns is the profile projection shared by the radius search and the
// fleet-wide listing.
const driverColumns = `
    id, is_available, vehicle_type, rating, completed_rides, experience_years,
    last_lat, last_lng,
    gender, conversation, music, languages, allows_smoking, allows_pets,
    wheelchair_accessible, service_animal_friendly, child_seat, sensory_friendly,
    climate_control, comfort_features,
    response_time_sec, cancellation_rate, late_arrival_rate,
    satisfaction_score, safety_score, efficiency_score,
    preferred_hours, preferred_zones, max_rides_per_day, current_rides`

type Store struct {
	redis *redis.Client
	db    *pgxpool.Pool
}

func NewStore(redisClient *redis.Client, db *pgxpool.Pool) *Store {
	return &Store{redis: redisClient, db: db}
}

// UpdatePosition records a driver's position in the GEO index and mirrors it
// to the profile row so fleet-wide scans see the same snapshot.
func (s *Store) UpdatePosition(ctx context.Context, driverID types.ID, p types.Point) error {
	err := s.redis.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      string(driverID),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        UPDATE drivers SET last_lat = $1, last_lng = $2, is_available = true
        WHERE id = $3`,
		p.Lat, p.Lng, string(driverID),
	)
	return err
}

// RemoveCandidate takes a driver out of the matchable pool.
func (s *Store) RemoveCandidate(ctx context.Context, driverID types.ID) error {
	if err := s.redis.ZRem(ctx, driverGeoKey, string(driverID)).Err(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `UPDATE drivers SET is_available = false WHERE id = $1`, string(driverID))
	return err
}

// FindAvailableDrivers returns available drivers within radiusKm of center,
// closest first. Proximity comes from the GEO index; profiles are hydrated
// from PostgreSQL with the index position taking precedence over the mirror.
func (s *Store) FindAvailableDrivers(ctx context.Context, center types.Point, radiusKm float64) ([]DriverCandidate, error) {
	locations, err := s.redis.GeoSearchLocation(ctx, driverGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Lng,
			Latitude:   center.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search: %w", err)
	}
	if len(locations) == 0 {
		return nil, nil
	}

	ids := make([]string, len(locations))
	for i, loc := range locations {
		ids[i] = loc.Name
	}
	profiles, err := s.loadProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]DriverCandidate, 0, len(locations))
	for _, loc := range locations {
		d, ok := profiles[types.ID(loc.Name)]
		if !ok || !d.Available {
			continue
		}
		d.Position = types.Point{Lat: loc.Latitude, Lng: loc.Longitude}
		candidates = append(candidates, d)
	}
	return candidates, nil
}

// ListAvailable returns every available driver with a known position,
// regardless of proximity. Used by the fleet optimizer.
func (s *Store) ListAvailable(ctx context.Context) ([]DriverCandidate, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+driverColumns+`
        FROM drivers
        WHERE is_available = true AND last_lat IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []DriverCandidate
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, d)
	}
	return candidates, rows.Err()
}

// ActiveVariant returns the single active ranking experiment, or nil.
func (s *Store) ActiveVariant(ctx context.Context) (*ExperimentVariant, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, algorithm FROM experiment_variants
        WHERE active = true
        LIMIT 1`)
	var v ExperimentVariant
	err := row.Scan(&v.ID, &v.Name, &v.Algorithm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) loadProfiles(ctx context.Context, ids []string) (map[types.ID]DriverCandidate, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+driverColumns+`
        FROM drivers
        WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make(map[types.ID]DriverCandidate, len(ids))
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		profiles[d.ID] = d
	}
	return profiles, rows.Err()
}

func scanDriver(rows pgx.Rows) (DriverCandidate, error) {
	var d DriverCandidate
	var lat, lng *float64
	var zones []string
	err := rows.Scan(
		&d.ID, &d.Available, &d.VehicleType, &d.Rating, &d.CompletedRides, &d.ExperienceYears,
		&lat, &lng,
		&d.Characteristics.Gender, &d.Characteristics.Conversation, &d.Characteristics.Music,
		&d.Characteristics.Languages, &d.Characteristics.AllowsSmoking, &d.Characteristics.AllowsPets,
		&d.Vehicle.WheelchairAccessible, &d.Vehicle.ServiceAnimalFriendly, &d.Vehicle.ChildSeat,
		&d.Vehicle.SensoryFriendly, &d.Vehicle.ClimateControl, &d.Vehicle.Comfort,
		&d.Performance.ResponseTimeSec, &d.Performance.CancellationRate, &d.Performance.LateArrivalRate,
		&d.Performance.SatisfactionScore, &d.Performance.SafetyScore, &d.Performance.EfficiencyScore,
		&d.Work.PreferredHours, &zones, &d.Work.MaxRidesPerDay, &d.Work.CurrentRides,
	)
	if err != nil {
		return DriverCandidate{}, err
	}
	if lat != nil && lng != nil {
		d.Position = types.Point{Lat: *lat, Lng: *lng}
	}
	d.Work.PreferredZones = make([]types.ID, len(zones))
	for i, z := range zones {
		d.Work.PreferredZones[i] = types.ID(z)
	}
	return d, nil
}
