package domain

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// SpatialReference identifies the coordinate system of a geometry by its
// well-known ID. The demo map and the solver both operate in WGS 84.
type SpatialReference struct {
	WKID int `json:"wkid"`
}

// WGS84 is the spatial reference of the map surface and the solver output.
var WGS84 = SpatialReference{WKID: 4326}
