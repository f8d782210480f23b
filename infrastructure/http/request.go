package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"synaptik/auth"
	"synaptik/domain"
	"synaptik/errors"
	"time"
)

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errors.ErrInvalidPayload, err)
	}
	return nil
}

// currentUser is set by the auth middleware on every protected route.
func currentUser(r *http.Request) domain.UserID {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}

// pageParams reads ?limit=&before=&beforeId= where before is an RFC 3339 timestamp
// and beforeId the id of the message at that instant, as returned in a page cursor.
func pageParams(r *http.Request) (*domain.Cursor, int, error) {
	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, 0, fmt.Errorf("%w: limit %q", errors.ErrInvalidPayload, raw)
		}
		limit = n
	}
	raw := query.Get("before")
	if raw == "" {
		return nil, limit, nil
	}
	before, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: before %q", errors.ErrInvalidPayload, raw)
	}
	cursor := domain.Cursor{CreatedAt: before}
	if id := query.Get("beforeId"); id != "" {
		if !domain.IsValidID(id) {
			return nil, 0, fmt.Errorf("%w: beforeId %q", errors.ErrInvalidPayload, id)
		}
		cursor.ID = domain.MessageID(id)
	}
	return &cursor, limit, nil
}
