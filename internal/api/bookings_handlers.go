package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"hotelbook/internal/auth"
	"hotelbook/internal/export"
	"hotelbook/internal/models"
)

type createBookingRequest struct {
	RoomID    int64  `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// POST /api/v1/bookings
func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body createBookingRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	start, err := requiredDate("start_date", body.StartDate)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	end, err := requiredDate("end_date", body.EndDate)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	booking, err := s.svc.Bookings.CreateBooking(r.Context(), auth.CallerFromContext(r.Context()), models.CreateBookingRequest{
		RoomID:    body.RoomID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// DELETE /api/v1/bookings/{id}
func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	booking, err := s.svc.Bookings.CancelBooking(r.Context(), auth.CallerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GET /api/v1/bookings
func (s *HTTPServer) handleListMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.svc.Bookings.ListMine(r.Context(), auth.CallerFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(bookings))
}

// GET /api/v1/manager/bookings
func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	period, err := periodQuery(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	bookings, err := s.svc.Bookings.ListAll(r.Context(), auth.CallerFromContext(r.Context()), models.BookingFilter{DateRange: period})
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(bookings))
}

// GET /api/v1/manager/bookings/{id}
func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	booking, err := s.svc.Bookings.GetBooking(r.Context(), auth.CallerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GET /api/v1/manager/bookings/export
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	period, err := periodQuery(r)
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	bookings, err := s.svc.Bookings.ListAll(r.Context(), auth.CallerFromContext(r.Context()), models.BookingFilter{DateRange: period})
	if err != nil {
		writeServiceError(w, s.log, err)
		return
	}

	// Пишем в буфер, чтобы ошибка не оборвала уже начатый ответ
	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, bookings, period); err != nil {
		writeServiceError(w, s.log, fmt.Errorf("export bookings: %w", err))
		return
	}

	name := "bookings_" + time.Now().UTC().Format("20060102_150405") + ".xlsx"
	if period != nil {
		name = fmt.Sprintf("bookings_%s_%s.xlsx", models.FormatDate(period.Start), models.FormatDate(period.End))
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// nonNil keeps empty lists rendered as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
