package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"service-area-service/internal/api/dto"
	"service-area-service/internal/domain"
	"service-area-service/internal/services"
)

// ClickHandler turns a map click into a service-area solve and waits for
// that solve's own settlement before responding.
type ClickHandler struct {
	Controller *services.Controller
}

func (h *ClickHandler) Click(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ClickRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.Lon < -180 || req.Lon > 180 || req.Lat < -90 || req.Lat > 90 {
		writeError(w, r, http.StatusBadRequest, "coordinates out of range")
		return
	}

	pt := domain.Coordinates{Lon: req.Lon, Lat: req.Lat}

	outcome, err := h.Controller.Click(r.Context(), pt)
	if err != nil {
		log.Printf("click dispatch failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	select {
	case o := <-outcome:
		if o.Err != nil {
			log.Printf("click solve failed: %v", o.Err)
			writeError(w, r, http.StatusBadGateway, "service area solve failed")
			return
		}

		res := dto.ClickResponse{
			Facility:     domain.Facility{Location: pt, SpatialReference: domain.WGS84},
			BreakMinutes: o.Result.BreakMinutes,
			Polygons:     o.Result.Polygons,
		}
		writeJSON(w, r, http.StatusOK, res)
	case <-r.Context().Done():
		// Client gone; the solve still settles and renders on the layer.
	}
}
