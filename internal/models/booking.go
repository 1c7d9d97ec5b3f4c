package models

import (
	"encoding/json"
	"time"
)

type Booking struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	RoomID    int64     `json:"room_id"`
	Room      *Room     `json:"room,omitempty"`
	StartDate time.Time `json:"-"`
	EndDate   time.Time `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Range returns the booked nights as a DateRange.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Nights    int    `json:"nights"`
	}{
		plain:     plain(b),
		StartDate: FormatDate(b.StartDate),
		EndDate:   FormatDate(b.EndDate),
		Nights:    b.Range().Nights(),
	})
}

type CreateBookingRequest struct {
	RoomID    int64
	StartDate time.Time
	EndDate   time.Time
}

// BookingFilter narrows the manager booking list. A nil DateRange lists everything.
type BookingFilter struct {
	DateRange *DateRange
}
