package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("start date must be before end date")
	ErrPastDate     = errors.New("start date cannot be in the past")
	ErrRoomInactive = errors.New("room is currently unavailable")
	ErrConflict     = errors.New("room is already booked for the selected dates")
	ErrForbidden    = errors.New("forbidden")

	// ErrUnauthenticated and ErrInsufficientRole both satisfy errors.Is(err, ErrForbidden).
	ErrUnauthenticated  = fmt.Errorf("%w: authentication required", ErrForbidden)
	ErrInsufficientRole = fmt.Errorf("%w: insufficient role", ErrForbidden)

	ErrValidation          = errors.New("validation failed")
	ErrDuplicateRoomNumber = errors.New("room number already exists")
)
