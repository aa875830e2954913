package handler

import (
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseDateRange reads startDate and endDate and writes a 400 when they are malformed or reversed.
func parseDateRange(w http.ResponseWriter, r *http.Request) (start, end *time.Time, ok bool) {
	start, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate inválida (use AAAA-MM-DD)")
		return nil, nil, false
	}
	end, err = parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate inválida (use AAAA-MM-DD)")
		return nil, nil, false
	}
	if start != nil && end != nil && start.After(*end) {
		writeError(w, http.StatusBadRequest, "startDate deve ser anterior a endDate")
		return nil, nil, false
	}
	return start, end, true
}
