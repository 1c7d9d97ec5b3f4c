package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotelbook/internal/auth"
	"hotelbook/internal/config"
	"hotelbook/internal/database"
	"hotelbook/internal/events"
	"hotelbook/internal/models"
	"hotelbook/internal/repository"
	"hotelbook/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "hotelbook-auth"
)

var fixedNow = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db      *database.DB
	bus     *events.EventBus
	svc     Services
	server  *HTTPServer
	handler http.Handler
	issuer  *auth.Issuer
}

func newTestEnv(t *testing.T, cfg config.APIConfig) *testEnv {
	t.Helper()

	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	cache := repository.NewMemoryCatalogCache(time.Minute)
	svc := Services{
		Bookings:     service.NewBookingService(db, bus, time.UTC, &logger, service.WithClock(func() time.Time { return fixedNow })),
		Catalog:      service.NewCatalogService(db, cache, bus, &logger),
		Availability: service.NewAvailabilityService(db, db, &logger),
	}

	srv := NewHTTPServer(cfg, svc, auth.NewVerifier(testSecret, testIssuer), db.PingContext, &logger)
	return &testEnv{
		db:      db,
		bus:     bus,
		svc:     svc,
		server:  srv,
		handler: srv.Handler(),
		issuer:  auth.NewIssuer(testSecret, testIssuer, time.Hour),
	}
}

func (e *testEnv) token(t *testing.T, caller *models.Caller) string {
	t.Helper()
	tok, err := e.issuer.Issue(caller)
	require.NoError(t, err)
	return tok
}

// do performs a request; a nil caller sends no Authorization header.
func (e *testEnv) do(t *testing.T, caller *models.Caller, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, caller))
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedRoom(t *testing.T, number string, price models.Money, guests int, active bool) *models.Room {
	t.Helper()
	ctx := context.Background()

	categories, err := e.db.ListCategories(ctx)
	require.NoError(t, err)
	var category *models.Category
	if len(categories) > 0 {
		category = categories[0]
	} else {
		category = &models.Category{Name: "Standard"}
		require.NoError(t, e.db.CreateCategory(ctx, category))
	}

	room := &models.Room{Number: number, CategoryID: category.ID, Price: price, MaxGuests: guests, IsActive: active}
	require.NoError(t, e.db.CreateRoom(ctx, room))
	return room
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func guest(id int64) *models.Caller {
	return &models.Caller{UserID: id, Username: "guest"}
}

func manager() *models.Caller {
	return &models.Caller{UserID: 900, Username: "manager", Roles: models.RoleSet{Manager: true}}
}

func admin() *models.Caller {
	return &models.Caller{UserID: 901, Username: "admin", Roles: models.RoleSet{Admin: true}}
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func bookingReq(roomID int64, start, end string) models.CreateBookingRequest {
	s, _ := models.ParseDate(start)
	e, _ := models.ParseDate(end)
	return models.CreateBookingRequest{RoomID: roomID, StartDate: s, EndDate: e}
}
