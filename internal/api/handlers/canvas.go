package handlers

import (
	"log"
	"net/http"

	"service-area-service/internal/api/dto"
	"service-area-service/internal/services"
)

// CanvasHandler exposes the current graphics layer for the demo page.
type CanvasHandler struct {
	Controller *services.Controller
}

func (h *CanvasHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := h.Controller.Canvas(r.Context())
	if err != nil {
		log.Printf("canvas snapshot failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.CanvasResponse{
		Graphics:     snap.Graphics,
		ClickPoint:   snap.ClickPoint,
		BreakMinutes: snap.BreakMinutes,
		BreakLabel:   snap.BreakLabel,
		State:        snap.State,
	}

	writeJSON(w, r, http.StatusOK, res)
}
