package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hotelbook/internal/auth"
	"hotelbook/internal/config"
	"hotelbook/internal/logging"
	"hotelbook/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Services bundles what the HTTP handlers call into.
type Services struct {
	Bookings     *service.BookingService
	Catalog      *service.CatalogService
	Availability *service.AvailabilityService
}

// ReadinessFunc reports whether downstream dependencies can serve traffic.
type ReadinessFunc func(ctx context.Context) error

// HTTPServer exposes the booking engine over JSON.
type HTTPServer struct {
	cfg      config.APIConfig
	svc      Services
	verifier *auth.Verifier
	ready    ReadinessFunc
	limiter  *rateLimiter
	router   *mux.Router
	server   *http.Server
	log      *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc Services, verifier *auth.Verifier, ready ReadinessFunc, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		cfg:      cfg,
		svc:      svc,
		verifier: verifier,
		ready:    ready,
		limiter:  newRateLimiter(cfg.RateLimit),
		log:      logging.Component(logger, "http"),
	}
	s.router = s.routes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()
	withFallbacks(r)
	r.Use(s.observe, s.authenticate, s.rateLimit)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := subrouter(r, "/api/v1")

	// Бронирования клиента
	api.HandleFunc("/bookings", s.handleCreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings", s.handleListMyBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", s.handleCancelBooking).Methods(http.MethodDelete)

	api.HandleFunc("/rooms", s.handleSearchRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id:[0-9]+}", s.handleGetRoom).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.handleListCategories).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", s.handleGetCategory).Methods(http.MethodGet)

	// Менеджер
	manager := subrouter(api, "/manager")
	manager.HandleFunc("/bookings", s.handleListBookings).Methods(http.MethodGet)
	manager.HandleFunc("/bookings/export", s.handleExportBookings).Methods(http.MethodGet)
	manager.HandleFunc("/bookings/{id:[0-9]+}", s.handleGetBooking).Methods(http.MethodGet)
	manager.HandleFunc("/rooms", s.handleListManagedRooms).Methods(http.MethodGet)
	manager.HandleFunc("/rooms/{id:[0-9]+}/availability", s.handleSetRoomAvailability).Methods(http.MethodPatch)

	// Администратор
	admin := subrouter(api, "/admin")
	admin.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id:[0-9]+}", s.handleUpdateCategory).Methods(http.MethodPut)
	admin.HandleFunc("/categories/{id:[0-9]+}", s.handleDeleteCategory).Methods(http.MethodDelete)
	admin.HandleFunc("/rooms", s.handleCreateRoom).Methods(http.MethodPost)
	admin.HandleFunc("/rooms/{id:[0-9]+}", s.handleUpdateRoom).Methods(http.MethodPut)
	admin.HandleFunc("/rooms/{id:[0-9]+}", s.handleDeleteRoom).Methods(http.MethodDelete)

	return r
}

// withFallbacks renders unmatched paths and methods as JSON errors. Every
// subrouter needs its own copy, mux does not inherit them.
func withFallbacks(r *mux.Router) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})
}

func subrouter(parent *mux.Router, prefix string) *mux.Router {
	sub := parent.PathPrefix(prefix).Subrouter()
	withFallbacks(sub)
	return sub
}

// Handler is the full middleware-wrapped handler, also used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return requestID(s.router)
}

func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			s.log.Warn().Err(err).Msg("readiness check failed")
			writeError(w, http.StatusServiceUnavailable, codeUnavailable, "not ready")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
