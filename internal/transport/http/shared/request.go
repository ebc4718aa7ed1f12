package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"hrconsole/internal/domain/result"
)

// DecodeJSON reads the request body into dst. Unknown fields are rejected so
// typos surface instead of being dropped.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return result.New(result.CodeValidation, "request body too large")
		}
		return result.New(result.CodeValidation, "invalid request payload")
	}
	return nil
}

// IntQuery parses an optional integer query parameter; absent means 0.
func IntQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, result.New(result.CodeValidation, fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}

// MonthYear reads ?month&year.
func MonthYear(r *http.Request) (int, int, error) {
	month, err := IntQuery(r, "month")
	if err != nil {
		return 0, 0, err
	}
	year, err := IntQuery(r, "year")
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}
