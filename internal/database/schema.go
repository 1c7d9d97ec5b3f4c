package database

// overlapGuardMessage is raised by the sqlite trigger and matched in isOverlapViolation.
const overlapGuardMessage = "booking overlaps an existing booking"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL CHECK (length(name) BETWEEN 1 AND 50)
    )`,
	`CREATE TABLE IF NOT EXISTS rooms (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
        number TEXT NOT NULL UNIQUE,
        price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
        max_guests INTEGER NOT NULL CHECK (max_guests >= 1),
        is_active BOOLEAN NOT NULL DEFAULT 1,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    )`,
	// start_date/end_date are ISO dates stored as TEXT so they compare lexicographically
	`CREATE TABLE IF NOT EXISTS bookings (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL,
        user_name TEXT NOT NULL DEFAULT '',
        room_id INTEGER NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
        start_date TEXT NOT NULL,
        end_date TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        CHECK (start_date < end_date),
        UNIQUE (room_id, start_date, end_date)
    )`,
	`CREATE INDEX IF NOT EXISTS idx_rooms_category_id ON rooms(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rooms_is_active ON rooms(is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_room_range ON bookings(room_id, start_date, end_date)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
	`CREATE TRIGGER IF NOT EXISTS bookings_no_overlap
        BEFORE INSERT ON bookings
        WHEN EXISTS (
            SELECT 1 FROM bookings
            WHERE room_id = NEW.room_id
              AND start_date < NEW.end_date
              AND end_date > NEW.start_date
        )
    BEGIN
        SELECT RAISE(ABORT, '` + overlapGuardMessage + `');
    END`,
}

var postgresSchema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS categories (
        id BIGSERIAL PRIMARY KEY,
        name VARCHAR(50) NOT NULL CHECK (length(name) >= 1)
    )`,
	`CREATE TABLE IF NOT EXISTS rooms (
        id BIGSERIAL PRIMARY KEY,
        category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
        number VARCHAR(10) NOT NULL UNIQUE,
        price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
        max_guests INTEGER NOT NULL CHECK (max_guests >= 1),
        is_active BOOLEAN NOT NULL DEFAULT TRUE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS bookings (
        id BIGSERIAL PRIMARY KEY,
        user_id BIGINT NOT NULL,
        user_name TEXT NOT NULL DEFAULT '',
        room_id BIGINT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
        start_date DATE NOT NULL,
        end_date DATE NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        CHECK (start_date < end_date),
        UNIQUE (room_id, start_date, end_date),
        CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
            room_id WITH =,
            daterange(start_date, end_date, '[)') WITH &&
        )
    )`,
	`CREATE INDEX IF NOT EXISTS idx_rooms_category_id ON rooms(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rooms_is_active ON rooms(is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
}
