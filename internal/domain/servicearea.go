package domain

// Facility is the origin point for a service-area computation.
type Facility struct {
	Location         Coordinates      `json:"location"`
	SpatialReference SpatialReference `json:"spatial_reference"`
}

// ServiceAreaParameters is the long-lived, mutable parameter bag handed to
// the solver. It is mutated in place on each click (facility) and on each
// break change (default breaks); the interaction controller owns it and all
// mutation happens on its event loop.
//
// Invariant: Facilities holds at most one entry (single-click-point model).
type ServiceAreaParameters struct {
	Facilities          []Facility
	DefaultBreaks       []float64 // minutes
	OutSpatialReference SpatialReference
	ReturnFacilities    bool
	TravelProfile       string
}

// NewServiceAreaParameters returns a parameter bag with the given initial
// break (minutes) and travel profile, producing WGS 84 output.
func NewServiceAreaParameters(breakMinutes float64, profile string) *ServiceAreaParameters {
	return &ServiceAreaParameters{
		Facilities:          make([]Facility, 0, 1),
		DefaultBreaks:       []float64{breakMinutes},
		OutSpatialReference: WGS84,
		ReturnFacilities:    false,
		TravelProfile:       profile,
	}
}

// SetFacility replaces the facility set with the single given point.
func (p *ServiceAreaParameters) SetFacility(pt Coordinates, sr SpatialReference) {
	p.Facilities = p.Facilities[:0]
	p.Facilities = append(p.Facilities, Facility{Location: pt, SpatialReference: sr})
}

// SetBreak replaces the break list with the single given value in minutes.
func (p *ServiceAreaParameters) SetBreak(minutes float64) {
	p.DefaultBreaks = p.DefaultBreaks[:0]
	p.DefaultBreaks = append(p.DefaultBreaks, minutes)
}

// Copy returns a deep copy. Solves run against a copy taken at dispatch time
// so a break change cannot mutate a solve already in flight.
func (p *ServiceAreaParameters) Copy() *ServiceAreaParameters {
	cp := *p
	cp.Facilities = append([]Facility(nil), p.Facilities...)
	cp.DefaultBreaks = append([]float64(nil), p.DefaultBreaks...)
	return &cp
}

// Polygon is a service-area boundary: one or more rings of coordinates,
// the first ring outer, any following rings holes.
type Polygon struct {
	Rings            [][]Coordinates  `json:"rings"`
	SpatialReference SpatialReference `json:"spatial_reference"`
}

// ServiceAreaResult is the ephemeral output of one solve call. It is
// consumed once for rendering and then discarded.
type ServiceAreaResult struct {
	Polygons     []Polygon
	BreakMinutes float64
}
