package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode error here means the client went away.
	_ = json.NewEncoder(w).Encode(v)
}

// pathUUID binds a UUID path parameter the way generated oapi-codegen
// servers do. On failure it writes a 400 and reports false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid format for parameter "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// queryParam binds an optional query parameter into dest (a pointer to a
// pointer for optional values). On failure it writes a 400 and reports false.
func queryParam(w http.ResponseWriter, r *http.Request, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "invalid format for parameter "+name, nil)
		return false
	}
	return true
}

// decodeBody reads a JSON body into dst and validates it. On failure it
// writes the error response and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, "request body too large", nil)
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusUnprocessableEntity, codeValidation, "request body is required", nil)
		default:
			writeError(w, http.StatusUnprocessableEntity, codeValidation, "malformed JSON body", nil)
		}
		return false
	}
	if violations := validateStruct(dst); len(violations) > 0 {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "request validation failed", violations)
		return false
	}
	return true
}
