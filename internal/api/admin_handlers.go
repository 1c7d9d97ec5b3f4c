package api

import (
	"net/http"

	"hotelbook/internal/auth"
	"hotelbook/internal/models"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type roomRequest struct {
	Number     string       `json:"number"`
	CategoryID int64        `json:"category_id"`
	Price      models.Money `json:"price"`
	MaxGuests  int          `json:"max_guests"`
	IsActive   *bool        `json:"is_active"`
}

func (req roomRequest) room(id int64) *models.Room {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &models.Room{
		ID:         id,
		Number:     req.Number,
		CategoryID: req.CategoryID,
		Price:      req.Price,
		MaxGuests:  req.MaxGuests,
		IsActive:   active,
	}
}

func (s *HTTPServer) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body categoryRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	category := &models.Category{Name: body.Name}
	if err := s.svc.Catalog.CreateCategory(r.Context(), auth.CallerFromContext(r.Context()), category); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (s *HTTPServer) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	var body categoryRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	category := &models.Category{ID: id, Name: body.Name}
	if err := s.svc.Catalog.UpdateCategory(r.Context(), auth.CallerFromContext(r.Context()), category); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DELETE /api/v1/admin/categories/{id} also removes its rooms and their bookings.
func (s *HTTPServer) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	if err := s.svc.Catalog.DeleteCategory(r.Context(), auth.CallerFromContext(r.Context()), id); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var body roomRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	room := body.room(0)
	if err := s.svc.Catalog.CreateRoom(r.Context(), auth.CallerFromContext(r.Context()), room); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *HTTPServer) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	var body roomRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	room := body.room(id)
	if err := s.svc.Catalog.UpdateRoom(r.Context(), auth.CallerFromContext(r.Context()), room); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *HTTPServer) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	if err := s.svc.Catalog.DeleteRoom(r.Context(), auth.CallerFromContext(r.Context()), id); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
