package cache

import (
	"fmt"

	"service-area-service/internal/ports"
)

// originKey serializes a facility location into a stable cache key segment.
// Six decimal places (~0.1m) keeps keys consistent across float formatting.
func originKey(k ports.SolveKey) string {
	return fmt.Sprintf("%.6f,%.6f", k.Facility.Lon, k.Facility.Lat)
}
