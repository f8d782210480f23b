// Package http serves the REST API, the uploaded files and the WebSocket endpoint.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"synaptik/errors"
)

// statuses is checked in order, the first sentinel found in the chain wins.
var statuses = []struct {
	err    error
	status int
}{
	{errors.ErrUnauthenticated, http.StatusUnauthorized},
	{errors.ErrInvalidToken, http.StatusUnauthorized},
	{errors.ErrForbidden, http.StatusForbidden},
	{errors.ErrEmailNotVerified, http.StatusForbidden},
	{errors.ErrUserNotFound, http.StatusNotFound},
	{errors.ErrRoomNotFound, http.StatusNotFound},
	{errors.ErrDMNotFound, http.StatusNotFound},
	{errors.ErrRateLimited, http.StatusTooManyRequests},
	{errors.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{errors.ErrFileTypeRejected, http.StatusUnsupportedMediaType},
	{errors.ErrInvalidRoomID, http.StatusBadRequest},
	{errors.ErrInvalidDMID, http.StatusBadRequest},
	{errors.ErrInvalidUserID, http.StatusBadRequest},
	{errors.ErrInvalidSelector, http.StatusBadRequest},
	{errors.ErrInvalidMessageType, http.StatusBadRequest},
	{errors.ErrEmptyMessage, http.StatusBadRequest},
	{errors.ErrMessageTooLong, http.StatusBadRequest},
	{errors.ErrInvalidPayload, http.StatusBadRequest},
	{errors.ErrCannotDMYourself, http.StatusBadRequest},
	{errors.ErrMissingFields, http.StatusBadRequest},
	{errors.ErrInvalidPassword, http.StatusBadRequest},
	{errors.ErrInvalidCredentials, http.StatusBadRequest},
	{errors.ErrInvalidOTP, http.StatusBadRequest},
	{errors.ErrOTPNotFound, http.StatusBadRequest},
	{errors.ErrNoFile, http.StatusBadRequest},
	{errors.ErrRoomNameTaken, http.StatusBadRequest},
	{errors.ErrUserAlreadyExists, http.StatusBadRequest},
}

type errorBody struct {
	Message string `json:"message"`
}

func statusFor(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the mapped status. Unexpected errors are logged and never leaked.
func writeError(log *slog.Logger, w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		message = "Server error"
	}
	writeJSON(log, w, status, errorBody{Message: message})
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug("Unable to write response", "error", err)
	}
}
