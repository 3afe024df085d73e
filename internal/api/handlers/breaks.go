package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"service-area-service/internal/api/dto"
	"service-area-service/internal/services"
)

// BreakHandler applies time-break control changes: store the new break,
// update the label, and replay the last interaction when one exists.
type BreakHandler struct {
	Controller *services.Controller
}

func (h *BreakHandler) Change(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.BreakRequest

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

	if req.Value <= 0 {
		writeError(w, r, http.StatusBadRequest, "value must be positive")
		return
	}

	change, err := h.Controller.ChangeBreak(r.Context(), req.Value)
	if err != nil {
		log.Printf("break change failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.BreakResponse{
		BreakMinutes: change.BreakMinutes,
		Label:        change.Label,
		Replayed:     change.Replayed,
	}

	if !change.Replayed {
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	select {
	case o := <-change.Outcome:
		if o.Err != nil {
			log.Printf("break replay solve failed: %v", o.Err)
			writeError(w, r, http.StatusBadGateway, "service area solve failed")
			return
		}
		res.Polygons = o.Result.Polygons
		writeJSON(w, r, http.StatusOK, res)
	case <-r.Context().Done():
	}
}
