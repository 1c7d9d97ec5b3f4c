package models

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

const (
	// MaxRoomNumberLength ограничение длины номера комнаты
	MaxRoomNumberLength = 10

	// MaxCategoryNameLength ограничение длины названия категории
	MaxCategoryNameLength = 50

	// MaxPrice upper bound of a room price (8 digits, 2 of them fractional)
	MaxPrice Money = 99999999
)

const (
	// DefaultCatalogCacheTTL время жизни записей каталога в кэше
	DefaultCatalogCacheTTL = 10 * time.Minute

	// DefaultBookingTimezone зона, в которой определяется "сегодня"
	DefaultBookingTimezone = "UTC"
)
