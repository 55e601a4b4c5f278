package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "studyplan/internal/platform/errors"
)

// Error is a non-2xx backend response. Detail carries the FastAPI-style
// {"detail": ...} message when present.
type Error struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return apperrors.ErrRejected
	default:
		return apperrors.ErrBackend
	}
}

func newError(method, path string, status int, body []byte) *Error {
	return &Error{Method: method, Path: path, Status: status, Detail: detail(body)}
}

func detail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	envelope := struct {
		Detail json.RawMessage `json:"detail"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		if len(body) > 200 {
			body = body[:200]
		}
		return string(body)
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}
	return string(envelope.Detail)
}
