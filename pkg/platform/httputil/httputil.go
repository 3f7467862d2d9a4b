// Package httputil holds the wire-level writers shared by every endpoint.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	dErrors "fairgate/pkg/domain-errors"
)

// maxBodyBytes bounds decoded JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteBinary passes a stored payload through unchanged. The content type and
// length always come from the caller's record, never from sniffing.
func WriteBinary(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteError serializes err. Classified errors keep their status and
// identifier; anything else becomes a bare internal_error. Internal errors
// never carry a message.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok || de.Code() == dErrors.CodeInternal {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: string(dErrors.CodeInternal)})
		return
	}
	WriteJSON(w, de.Status(), ErrorResponse{Error: de.Identifier(), Message: de.Message()})
}

// DecodeJSON reads a bounded JSON body into T, rejecting unknown fields.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, dErrors.BadRequest("invalid-body", "request body is required")
		}
		return nil, dErrors.BadRequest("invalid-body", "request body is not valid JSON")
	}
	return &v, nil
}
