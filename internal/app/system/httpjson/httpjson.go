// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/courtside/internal/app/system/inputval"
)

// Body is the JSON error envelope every endpoint returns:
//
//	{ "error": { "code": "meetup_full", "message": "This meetup is full." } }
type Body struct {
	Error Detail `json:"error"`
}

// Detail is the inner error object. Fields lists per-field validation
// failures for 400 responses.
type Detail struct {
	Code    string                `json:"code"`
	Message string                `json:"message"`
	Fields  []inputval.FieldError `json:"fields,omitempty"`
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error sends the error envelope.
func Error(w http.ResponseWriter, status int, code, msg string) {
	Write(w, status, Body{Error: Detail{Code: code, Message: msg}})
}
