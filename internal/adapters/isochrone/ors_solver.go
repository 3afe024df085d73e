package isochrone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"service-area-service/internal/domain"
	"service-area-service/internal/platform/obs"
	"service-area-service/internal/ports"
)

// ORSSolver implements ServiceAreaSolver using the OpenRouteService
// isochrones endpoint.
//
// It coordinates:
//   - Parameter validation (single facility, single positive break)
//   - Persistent solve-result caching
//   - External API calls with retry/backoff
//   - GeoJSON decoding into domain polygons
//
// The solver is safe for concurrent use.
type ORSSolver struct {
	session *http.Client
	apiKey  string
	baseURL string
	cache   ports.SolveCache
}

// NewORSSolver returns a solver against the hosted OpenRouteService API.
// cache may be nil; solves then always hit the remote service.
func NewORSSolver(apiKey string, cache ports.SolveCache) (*ORSSolver, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	solver := &ORSSolver{
		session: &http.Client{Timeout: 60 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		cache:   cache,
	}

	return solver, nil
}

type isochroneRequest struct {
	Locations [][]float64 `json:"locations"`
	Range     []int       `json:"range"`
	RangeType string      `json:"range_type"`
}

type isochroneResponse struct {
	Features []struct {
		Geometry struct {
			Type        string        `json:"type"`
			Coordinates [][][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// Solve computes the drive-time service area for the single facility and
// break carried by params, consulting the cache before calling ORS.
func (o *ORSSolver) Solve(
	ctx context.Context,
	params *domain.ServiceAreaParameters,
) (_ *domain.ServiceAreaResult, err error) {
	defer obs.Time(ctx, "ors.Solve")(&err)

	if params == nil {
		return nil, errors.New("solve: params must be non-nil")
	}
	if len(params.Facilities) != 1 {
		return nil, fmt.Errorf("solve: expected exactly 1 facility, got %d", len(params.Facilities))
	}
	if len(params.DefaultBreaks) != 1 {
		return nil, fmt.Errorf("solve: expected exactly 1 break, got %d", len(params.DefaultBreaks))
	}

	breakMinutes := params.DefaultBreaks[0]
	if breakMinutes <= 0 {
		return nil, fmt.Errorf("solve: break must be positive, got %g", breakMinutes)
	}

	facility := params.Facilities[0]
	rangeSeconds := int(math.Round(breakMinutes * 60))

	key := ports.SolveKey{
		Facility:     facility.Location,
		RangeSeconds: rangeSeconds,
		Profile:      params.TravelProfile,
	}

	// Check the persistent cache before issuing an external API call.
	if o.cache != nil {
		polygons, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("solve cache read: %w", err)
		}
		if ok {
			return &domain.ServiceAreaResult{
				Polygons:     polygons,
				BreakMinutes: breakMinutes,
			}, nil
		}
	}

	polygons, err := o.fetchIsochrones(ctx, facility.Location, rangeSeconds, params)
	if err != nil {
		return nil, fmt.Errorf("fetch isochrones: %w", err)
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, polygons); err != nil {
			log.Printf("solve cache write failed: %v", err)
		}
	}

	return &domain.ServiceAreaResult{
		Polygons:     polygons,
		BreakMinutes: breakMinutes,
	}, nil
}

// fetchIsochrones calls the ORS isochrones endpoint and decodes the GeoJSON
// feature collection into domain polygons.
func (o *ORSSolver) fetchIsochrones(
	ctx context.Context,
	origin domain.Coordinates,
	rangeSeconds int,
	params *domain.ServiceAreaParameters,
) ([]domain.Polygon, error) {
	endpoint := fmt.Sprintf("%s/v2/isochrones/%s", o.baseURL, params.TravelProfile)

	bodyObj := isochroneRequest{
		Locations: [][]float64{origin.CoordsToList()},
		Range:     []int{rangeSeconds},
		RangeType: "time",
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal isochrone request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("isochrone request failed: %w", err)
	}
	defer resp.Body.Close()

	var ir isochroneResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, fmt.Errorf("decode isochrone response: %w", err)
	}

	if len(ir.Features) == 0 {
		return nil, errors.New("isochrone response contained no features")
	}

	polygons := make([]domain.Polygon, 0, len(ir.Features))
	for i, f := range ir.Features {
		if f.Geometry.Type != "Polygon" {
			return nil, fmt.Errorf("feature #%d: unexpected geometry type %q", i, f.Geometry.Type)
		}

		rings := make([][]domain.Coordinates, 0, len(f.Geometry.Coordinates))
		for j, ring := range f.Geometry.Coordinates {
			pts := make([]domain.Coordinates, 0, len(ring))
			for _, pos := range ring {
				if len(pos) < 2 {
					return nil, fmt.Errorf("feature #%d ring #%d: invalid position", i, j)
				}
				pts = append(pts, domain.Coordinates{Lon: pos[0], Lat: pos[1]})
			}
			rings = append(rings, pts)
		}

		polygons = append(polygons, domain.Polygon{
			Rings:            rings,
			SpatialReference: params.OutSpatialReference,
		})
	}

	return polygons, nil
}
