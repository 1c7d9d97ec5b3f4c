package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hotelbook/internal/models"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", models.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", models.ErrValidation)
	}
	return id, nil
}

// requiredDate parses a mandatory YYYY-MM-DD body field.
func requiredDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", models.ErrValidation, field)
	}
	return models.ParseDate(s)
}

// periodQuery reads start_date/end_date. Both must be present for a filter to apply.
func periodQuery(r *http.Request) (*models.DateRange, error) {
	q := r.URL.Query()
	return models.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
}

func moneyQuery(r *http.Request, key string) (*models.Money, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	m, err := models.ParseMoney(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &m, nil
}

func intQuery(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", models.ErrValidation, key)
	}
	return &v, nil
}

func boolQuery(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", models.ErrValidation, key)
	}
	return &v, nil
}
