package api

import (
	"net/http"

	"github.com/shaiso/subway/internal/service"
)

// ListLines возвращает все линии без станций.
// GET /api/v1/lines
func (h *Handler) ListLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.lines.List(r.Context())
	if HandleServiceError(w, h.log(r), err) {
		return
	}

	result := make([]LineResponse, len(lines))
	for i, l := range lines {
		result[i] = LineFromDomain(l)
	}
	List(w, result, len(result))
}

// CreateLine создаёт линию с первым section.
// POST /api/v1/lines
func (h *Handler) CreateLine(w http.ResponseWriter, r *http.Request) {
	var req CreateLineRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.lines.Create(r.Context(), service.CreateLineInput{
		Name:          req.Name,
		Color:         req.Color,
		UpStationID:   req.UpStationID,
		DownStationID: req.DownStationID,
		Distance:      req.Distance,
	})
	if HandleServiceError(w, h.log(r), err) {
		return
	}

	w.Header().Set("Location", "/api/v1/lines/"+view.Line.ID.String())
	Created(w, LineFromView(*view))
}

// GetLine возвращает линию со станциями в порядке маршрута.
// GET /api/v1/lines/{id}
func (h *Handler) GetLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.lines.Get(r.Context(), id)
	if HandleServiceError(w, h.log(r), err) {
		return
	}
	Success(w, LineFromView(*view))
}

// UpdateLine меняет имя и цвет линии.
// PUT /api/v1/lines/{id}
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateLineRequest
	if !decode(w, r, &req) {
		return
	}

	line, err := h.lines.Update(r.Context(), id, service.UpdateLineInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if HandleServiceError(w, h.log(r), err) {
		return
	}
	Success(w, LineFromDomain(*line))
}

// DeleteLine удаляет линию вместе с sections.
// DELETE /api/v1/lines/{id}
func (h *Handler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if HandleServiceError(w, h.log(r), h.lines.Delete(r.Context(), id)) {
		return
	}
	NoContent(w)
}

// ListSections возвращает sections линии в порядке маршрута.
// GET /api/v1/lines/{id}/sections
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	sections, err := h.lines.Sections(r.Context(), id)
	if HandleServiceError(w, h.log(r), err) {
		return
	}

	result := make([]SectionResponse, len(sections))
	for i, s := range sections {
		result[i] = SectionFromDomain(s)
	}
	List(w, result, len(result))
}

// AddSection добавляет section к началу или концу маршрута.
// POST /api/v1/lines/{id}/sections
func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req SectionRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.lines.AddSection(r.Context(), id, service.AddSectionInput{
		UpStationID:   req.UpStationID,
		DownStationID: req.DownStationID,
		Distance:      req.Distance,
	})
	if HandleServiceError(w, h.log(r), err) {
		return
	}
	Created(w, LineFromView(*view))
}

// RemoveLineStation убирает станцию из маршрута линии.
// DELETE /api/v1/lines/{id}/stations/{stationId}
func (h *Handler) RemoveLineStation(w http.ResponseWriter, r *http.Request) {
	lineID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	stationID, ok := pathID(w, r, "stationId")
	if !ok {
		return
	}

	if _, err := h.lines.RemoveStation(r.Context(), lineID, stationID); HandleServiceError(w, h.log(r), err) {
		return
	}
	NoContent(w)
}
