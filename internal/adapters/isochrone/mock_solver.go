package isochrone

import (
	"context"
	"errors"
	"sync"

	"service-area-service/internal/domain"
)

// MockSolver returns canned polygons for tests. When Err is set, Solve
// fails with it. When Block is set, Solve waits until the channel is closed
// before settling, which lets tests hold a solve in flight.
type MockSolver struct {
	Polygons []domain.Polygon
	Err      error
	Block    chan struct{}

	mu    sync.Mutex
	calls []*domain.ServiceAreaParameters
}

func (m *MockSolver) Solve(
	ctx context.Context,
	params *domain.ServiceAreaParameters,
) (*domain.ServiceAreaResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}

	if len(params.Facilities) != 1 || len(params.DefaultBreaks) != 1 {
		return nil, errors.New("mock solver: params must carry one facility and one break")
	}

	return &domain.ServiceAreaResult{
		Polygons:     append([]domain.Polygon(nil), m.Polygons...),
		BreakMinutes: params.DefaultBreaks[0],
	}, nil
}

// Calls returns the parameter snapshots received so far.
func (m *MockSolver) Calls() []*domain.ServiceAreaParameters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.ServiceAreaParameters(nil), m.calls...)
}
