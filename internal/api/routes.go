package api

import (
	"net/http"
)

// RegisterRoutes регистрирует маршруты API в mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Tracing(),
		Logging(h.logger),
		RateLimit(h.limiter, h.logger),
	)

	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, chain(fn))
	}

	// Stations
	handle("GET /api/v1/stations", h.ListStations)
	handle("POST /api/v1/stations", h.CreateStation)
	handle("GET /api/v1/stations/{id}", h.GetStation)
	handle("PUT /api/v1/stations/{id}", h.UpdateStation)
	handle("DELETE /api/v1/stations/{id}", h.DeleteStation)

	// Lines
	handle("GET /api/v1/lines", h.ListLines)
	handle("POST /api/v1/lines", h.CreateLine)
	handle("GET /api/v1/lines/{id}", h.GetLine)
	handle("PUT /api/v1/lines/{id}", h.UpdateLine)
	handle("DELETE /api/v1/lines/{id}", h.DeleteLine)

	// Sections
	handle("GET /api/v1/lines/{id}/sections", h.ListSections)
	handle("POST /api/v1/lines/{id}/sections", h.AddSection)
	handle("DELETE /api/v1/lines/{id}/stations/{stationId}", h.RemoveLineStation)
}
