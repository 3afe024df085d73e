package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"service-area-service/internal/domain"
	"service-area-service/internal/ports"
)

// SQLite backed cache for solve results. Polygons are stored as a JSON blob
// keyed by (origin, range, profile).
type SqliteSolveCache struct {
	DB *sql.DB
}

func NewSqliteSolveCache(db *sql.DB) *SqliteSolveCache {
	return &SqliteSolveCache{DB: db}
}

// Get fetches the cached polygons for one solve key.
func (s *SqliteSolveCache) Get(
	ctx context.Context,
	key ports.SolveKey,
) ([]domain.Polygon, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("solve cache: db is nil")
	}
	if key.Profile == "" {
		return nil, false, errors.New("get solve cache: profile must not be empty")
	}

	q := `
	SELECT polygons
    FROM service_area_cache
    WHERE origin = ?
        AND range_seconds = ?
        AND profile = ?;
	`

	var blob string
	err := s.DB.QueryRowContext(ctx, q, originKey(key), key.RangeSeconds, key.Profile).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get solve cache: query service_area_cache table: %w", err)
	}

	var polygons []domain.Polygon
	if err := json.Unmarshal([]byte(blob), &polygons); err != nil {
		return nil, false, fmt.Errorf("get solve cache: decode polygons: %w", err)
	}

	return polygons, true, nil
}

// Put stores the polygons for one solve key, replacing any previous entry.
func (s *SqliteSolveCache) Put(
	ctx context.Context,
	key ports.SolveKey,
	polygons []domain.Polygon,
) error {
	if s.DB == nil {
		return errors.New("solve cache: db is nil")
	}
	if key.Profile == "" {
		return errors.New("insert solve cache: profile must not be empty")
	}

	blob, err := json.Marshal(polygons)
	if err != nil {
		return fmt.Errorf("insert solve cache: encode polygons: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO service_area_cache (
        origin,
        range_seconds,
        profile,
        polygons
    )
    VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, originKey(key), key.RangeSeconds, key.Profile, string(blob)); err != nil {
		return fmt.Errorf("insert solve cache origin=%q: %w", originKey(key), err)
	}

	return nil
}
