package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotelbook/internal/models"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error codes in the JSON body.
const (
	codeNotFound         = "NOT_FOUND"
	codeInvalidRange     = "INVALID_RANGE"
	codePastDate         = "PAST_DATE"
	codeRoomInactive     = "ROOM_INACTIVE"
	codeConflict         = "CONFLICT"
	codeUnauthenticated  = "UNAUTHENTICATED"
	codeForbidden        = "FORBIDDEN"
	codeValidation       = "VALIDATION_ERROR"
	codeDuplicateRoom    = "DUPLICATE_ROOM_NUMBER"
	codeRateLimited      = "RATE_LIMITED"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	codeUnavailable      = "UNAVAILABLE"
	codeInternal         = "INTERNAL"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorBody{Error: message, Code: code})
}

// httpStatus maps a service error onto a status code and body code.
func httpStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, models.ErrInvalidRange):
		return http.StatusBadRequest, codeInvalidRange
	case errors.Is(err, models.ErrPastDate):
		return http.StatusBadRequest, codePastDate
	case errors.Is(err, models.ErrRoomInactive):
		return http.StatusConflict, codeRoomInactive
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict, codeConflict
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, codeUnauthenticated
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, models.ErrDuplicateRoomNumber):
		return http.StatusConflict, codeDuplicateRoom
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeServiceError renders err; unexpected errors are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	statusCode, code := httpStatus(err)
	if statusCode == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		writeError(w, statusCode, code, "internal error")
		return
	}
	writeError(w, statusCode, code, err.Error())
}

// grpcError converts a service error into a gRPC status.
func grpcError(err error) error {
	var c codes.Code
	switch {
	case errors.Is(err, models.ErrNotFound):
		c = codes.NotFound
	case errors.Is(err, models.ErrInvalidRange), errors.Is(err, models.ErrPastDate), errors.Is(err, models.ErrValidation):
		c = codes.InvalidArgument
	case errors.Is(err, models.ErrRoomInactive):
		c = codes.FailedPrecondition
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrDuplicateRoomNumber):
		c = codes.AlreadyExists
	case errors.Is(err, models.ErrUnauthenticated):
		c = codes.Unauthenticated
	case errors.Is(err, models.ErrForbidden):
		c = codes.PermissionDenied
	default:
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(c, err.Error())
}
