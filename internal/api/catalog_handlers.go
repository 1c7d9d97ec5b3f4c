package api

import (
	"fmt"
	"net/http"

	"hotelbook/internal/auth"
	"hotelbook/internal/models"
)

// GET /api/v1/rooms
func (s *HTTPServer) handleSearchRooms(w http.ResponseWriter, r *http.Request) {
	var (
		filter models.RoomFilter
		err    error
	)
	if filter.DateRange, err = periodQuery(r); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	if filter.MinPrice, err = moneyQuery(r, "min_price"); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	if filter.MaxPrice, err = moneyQuery(r, "max_price"); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	if filter.MinGuests, err = intQuery(r, "guests"); err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	rooms, err := s.svc.Availability.Search(r.Context(), auth.CallerFromContext(r.Context()), filter)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rooms))
}

// GET /api/v1/rooms/{id}
func (s *HTTPServer) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	room, err := s.svc.Catalog.GetRoom(r.Context(), auth.CallerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *HTTPServer) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.Catalog.ListCategories(r.Context(), auth.CallerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(categories))
}

func (s *HTTPServer) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	category, err := s.svc.Catalog.GetCategory(r.Context(), auth.CallerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// GET /api/v1/manager/rooms?is_active=
func (s *HTTPServer) handleListManagedRooms(w http.ResponseWriter, r *http.Request) {
	active, err := boolQuery(r, "is_active")
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	rooms, err := s.svc.Catalog.ListRooms(r.Context(), auth.CallerFromContext(r.Context()), models.RoomListFilter{IsActive: active})
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rooms))
}

type roomAvailabilityRequest struct {
	IsActive *bool `json:"is_active"`
}

// PATCH /api/v1/manager/rooms/{id}/availability
func (s *HTTPServer) handleSetRoomAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	var body roomAvailabilityRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	if body.IsActive == nil {
		writeServiceError(w, s.log, fmt.Errorf("%w: is_active is required", models.ErrValidation))
		return
	}

	room, err := s.svc.Catalog.SetRoomActive(r.Context(), auth.CallerFromContext(r.Context()), id, *body.IsActive)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}
