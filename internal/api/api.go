// Package api holds the HTTP plumbing shared by every collection handler:
// paging parameters, the META count header, JSON and error responses.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/exposure"
)

// TotalCountHeader carries the META count.
const TotalCountHeader = "total-count"

// Limits bounds the page size a client may request.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits allows the whole collection on one page.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: domain.DefaultPageSize, MaxPageSize: domain.DefaultPageSize}
}

// PageRequest reads projection, pageSize, pageNumber, sortBy and direction
// from the query string. The projection may be META; callers branch on it.
func PageRequest(r *http.Request, limits Limits) (domain.PageRequest, error) {
	q := r.URL.Query()

	projection, err := domain.ParseProjection(q.Get("projection"))
	if err != nil {
		return domain.PageRequest{}, err
	}
	direction, err := domain.ParseSortDirection(q.Get("direction"))
	if err != nil {
		return domain.PageRequest{}, err
	}

	page := domain.PageRequest{
		Projection: projection,
		PageSize:   limits.DefaultPageSize,
		PageNumber: domain.DefaultPageNumber,
		SortBy:     strings.TrimSpace(q.Get("sortBy")),
		Direction:  direction,
	}
	if raw := q.Get("pageSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return domain.PageRequest{}, fmt.Errorf("%w: pageSize must be a positive integer", domain.ErrInvalidArgument)
		}
		if size > limits.MaxPageSize {
			return domain.PageRequest{}, fmt.Errorf("%w: pageSize must not exceed %d", domain.ErrInvalidArgument, limits.MaxPageSize)
		}
		page.PageSize = size
	}
	if raw := q.Get("pageNumber"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil || number < 0 {
			return domain.PageRequest{}, fmt.Errorf("%w: pageNumber must be a non-negative integer", domain.ErrInvalidArgument)
		}
		page.PageNumber = number
	}
	return page, nil
}

// ListParam collects a comma separated and/or repeated query parameter,
// trimming each value. It returns nil when the parameter is absent and an
// empty slice when it is present but holds no values.
func ListParam(r *http.Request, name string) []string {
	return listParam(r, name, true)
}

// ExactListParam is ListParam without trimming, for identifiers that are
// used verbatim such as the explicit case column list.
func ExactListParam(r *http.Request, name string) []string {
	return listParam(r, name, false)
}

func listParam(r *http.Request, name string, trim bool) []string {
	raw, present := r.URL.Query()[name]
	if !present {
		return nil
	}
	values := []string{}
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if trim {
				part = strings.TrimSpace(part)
			}
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// BoolParam parses an optional boolean query parameter.
func BoolParam(r *http.Request, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidArgument, name)
	}
	return value, nil
}

// WriteMeta answers a META projection with the count header and no body.
func WriteMeta(w http.ResponseWriter, meta domain.BaseMeta) {
	w.Header().Set(TotalCountHeader, strconv.Itoa(meta.TotalCount))
	w.WriteHeader(http.StatusOK)
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// WriteEntity writes one record limited to its exposed fields.
func WriteEntity(w http.ResponseWriter, logger *zap.Logger, fields exposure.Fields, entityType string, item any) {
	encoded, err := fields.Marshal(entityType, item)
	if err != nil {
		WriteError(w, logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, encoded)
}

// WriteEntities writes a list of records limited to their exposed fields.
func WriteEntities[T any](w http.ResponseWriter, logger *zap.Logger, fields exposure.Fields, entityType string, items []T) {
	encoded, err := exposure.MarshalList(fields, entityType, items)
	if err != nil {
		WriteError(w, logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, encoded)
}

type errorBody struct {
	Message string `json:"message"`
}

// StatusFor maps an error onto its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON message. Server errors are logged and
// their detail is withheld from the client.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		message = http.StatusText(status)
	}
	WriteJSON(w, status, errorBody{Message: message})
}
