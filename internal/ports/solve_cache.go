package ports

import (
	"context"

	"service-area-service/internal/domain"
)

// SolveKey identifies one cached solve: a facility location, a travel-time
// range in whole seconds, and the routing profile used.
type SolveKey struct {
	Facility     domain.Coordinates
	RangeSeconds int
	Profile      string
}

// Contract for caching solve results across process restarts.
// Implementations must tolerate concurrent use.
type SolveCache interface {
	// Get returns the cached polygons for key, with ok=false on a miss.
	Get(ctx context.Context, key SolveKey) (polygons []domain.Polygon, ok bool, err error)
	// Put stores the polygons for key, replacing any previous entry.
	Put(ctx context.Context, key SolveKey, polygons []domain.Polygon) error
}
