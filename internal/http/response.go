package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mybudget/internal/core"
	"mybudget/internal/log"
	"mybudget/internal/storage"
)

// envelope is the uniform JSON body of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}

var validationErrors = []error{
	core.ErrInvalidMonthKey,
	core.ErrInvalidBudget,
	core.ErrInvalidAmount,
	core.ErrInvalidType,
	core.ErrInvalidDate,
	core.ErrEmptyName,
	core.ErrDescriptionLong,
	core.ErrUnknownCategory,
	core.ErrCategoryType,
}

// statusForError maps domain and storage errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	for _, verr := range validationErrors {
		if errors.Is(err, verr) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with its mapped status. Internal errors are
// not echoed to the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		log.FromContext(ctx).ErrorContext(ctx, "Request failed", log.FieldError, err.Error(), log.FieldStatusCode, status)
		writeFailure(w, status, "internal error")
		return
	}
	writeFailure(w, status, err.Error())
}
