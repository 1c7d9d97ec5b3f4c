package models

import (
	"fmt"
	"strings"
	"time"
)

type Category struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if len([]rune(c.Name)) > MaxCategoryNameLength {
		return fmt.Errorf("%w: category name is longer than %d characters", ErrValidation, MaxCategoryNameLength)
	}
	return nil
}

type Room struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	CategoryID int64     `json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	Price      Money     `json:"price"`
	MaxGuests  int       `json:"max_guests"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Room) Validate() error {
	r.Number = strings.TrimSpace(r.Number)
	switch {
	case r.Number == "":
		return fmt.Errorf("%w: room number is required", ErrValidation)
	case len([]rune(r.Number)) > MaxRoomNumberLength:
		return fmt.Errorf("%w: room number is longer than %d characters", ErrValidation, MaxRoomNumberLength)
	case r.CategoryID <= 0:
		return fmt.Errorf("%w: category_id is required", ErrValidation)
	case r.Price < 0 || r.Price > MaxPrice:
		return fmt.Errorf("%w: price must be between 0 and %s", ErrValidation, MaxPrice)
	case r.MaxGuests < 1:
		return fmt.Errorf("%w: max_guests must be at least 1", ErrValidation)
	}
	return nil
}

// RoomFilter holds the optional search predicates. Nil fields impose no constraint.
type RoomFilter struct {
	MinPrice  *Money
	MaxPrice  *Money
	MinGuests *int
	DateRange *DateRange
}

// RoomListFilter is the manager view over all rooms, active or not.
type RoomListFilter struct {
	IsActive *bool
}

// CategorySeed and RoomSeed describe the bootstrap catalog file.
type CategorySeed struct {
	Name  string     `yaml:"name"`
	Rooms []RoomSeed `yaml:"rooms"`
}

type RoomSeed struct {
	Number    string `yaml:"number"`
	Price     Money  `yaml:"price"`
	MaxGuests int    `yaml:"max_guests"`
	IsActive  *bool  `yaml:"is_active"`
}
