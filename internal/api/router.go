package api

import (
	"net/http"

	"service-area-service/internal/api/handlers"
	"service-area-service/internal/services"
	"service-area-service/web"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(controller *services.Controller) http.Handler {
	mux := http.NewServeMux()

	clickHandler := &handlers.ClickHandler{Controller: controller}
	breakHandler := &handlers.BreakHandler{Controller: controller}
	canvasHandler := &handlers.CanvasHandler{Controller: controller}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/click", clickHandler.Click)
	mux.HandleFunc("/breaks", breakHandler.Change)
	mux.HandleFunc("/canvas", canvasHandler.Get)
	mux.Handle("/", web.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
