package ports

import (
	"context"

	"service-area-service/internal/domain"
)

// Contract for computing a drive-time service area around a facility.
type ServiceAreaSolver interface {
	// Solve computes the service-area polygons for the single facility and
	// single break carried by params. The result is ephemeral: callers
	// consume it once and discard it.
	Solve(ctx context.Context, params *domain.ServiceAreaParameters) (*domain.ServiceAreaResult, error)
}
