package api

import (
	"net/http"
)

// ListStations возвращает все станции.
// GET /api/v1/stations
func (h *Handler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.List(r.Context())
	if HandleServiceError(w, h.log(r), err) {
		return
	}

	result := make([]StationResponse, len(stations))
	for i, s := range stations {
		result[i] = StationFromDomain(s)
	}
	List(w, result, len(result))
}

// CreateStation создаёт станцию.
// POST /api/v1/stations
func (h *Handler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req StationRequest
	if !decode(w, r, &req) {
		return
	}

	station, err := h.stations.Create(r.Context(), req.Name)
	if HandleServiceError(w, h.log(r), err) {
		return
	}

	w.Header().Set("Location", "/api/v1/stations/"+station.ID.String())
	Created(w, StationFromDomain(*station))
}

// GetStation возвращает станцию.
// GET /api/v1/stations/{id}
func (h *Handler) GetStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	station, err := h.stations.Get(r.Context(), id)
	if HandleServiceError(w, h.log(r), err) {
		return
	}
	Success(w, StationFromDomain(*station))
}

// UpdateStation переименовывает станцию.
// PUT /api/v1/stations/{id}
func (h *Handler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req StationRequest
	if !decode(w, r, &req) {
		return
	}

	station, err := h.stations.Rename(r.Context(), id, req.Name)
	if HandleServiceError(w, h.log(r), err) {
		return
	}
	Success(w, StationFromDomain(*station))
}

// DeleteStation удаляет станцию, не входящую ни в одну линию.
// DELETE /api/v1/stations/{id}
func (h *Handler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if HandleServiceError(w, h.log(r), h.stations.Delete(r.Context(), id)) {
		return
	}
	NoContent(w)
}
