package dto

import "service-area-service/internal/domain"

type ClickRequest struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type ClickResponse struct {
	Facility     domain.Facility  `json:"facility"`
	BreakMinutes float64          `json:"break_minutes"`
	Polygons     []domain.Polygon `json:"polygons"`
}

type BreakRequest struct {
	// Value is the raw control value in seconds; the stored break is value/60.
	Value float64 `json:"value"`
}

type BreakResponse struct {
	BreakMinutes float64          `json:"break_minutes"`
	Label        string           `json:"label"`
	Replayed     bool             `json:"replayed"`
	Polygons     []domain.Polygon `json:"polygons,omitempty"`
}

type CanvasResponse struct {
	Graphics     []domain.Graphic    `json:"graphics"`
	ClickPoint   *domain.Coordinates `json:"click_point,omitempty"`
	BreakMinutes float64             `json:"break_minutes"`
	BreakLabel   string              `json:"break_label"`
	State        string              `json:"state"`
}
