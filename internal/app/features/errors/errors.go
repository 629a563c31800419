// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/app/system/httpjson"
	"github.com/dalemusser/courtside/internal/app/system/inputval"
	"github.com/dalemusser/courtside/internal/app/system/limits"
	"github.com/dalemusser/courtside/internal/app/system/roster"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Body is the JSON error envelope every feature returns.
type Body = httpjson.Body

// Detail is the inner error object.
type Detail = httpjson.Detail

// ErrorLogger writes JSON error responses and logs server-side failures
// with request context.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	httpjson.Write(w, status, v)
}

// Write sends a JSON error body.
func Write(w http.ResponseWriter, status int, code, msg string) {
	httpjson.Error(w, status, code, msg)
}

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = limits.MaxJSONBody

// DecodeJSON reads r's JSON body into dst. Unknown fields are rejected.
// On failure it answers 400 and returns false. An empty body decodes as {}
// when allowEmpty is set.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && stderrors.Is(err, io.EOF) {
			return true
		}
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			Write(w, http.StatusRequestEntityTooLarge, "too_large", "Request body is too large.")
			return false
		}
		BadRequest(w, "Request body must be valid JSON.")
		return false
	}
	return true
}

// BadRequest answers 400 with a single message.
func BadRequest(w http.ResponseWriter, msg string) {
	Write(w, http.StatusBadRequest, "bad_request", msg)
}

// Invalid answers 400 with every validation failure in res.
func Invalid(w http.ResponseWriter, res inputval.Result) {
	JSON(w, http.StatusBadRequest, Body{Error: Detail{
		Code:    "invalid",
		Message: res.First(),
		Fields:  res.Errors,
	}})
}

// Forbidden answers 403.
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "You don't have permission to do that."
	}
	Write(w, http.StatusForbidden, "forbidden", msg)
}

// NotFound answers 404.
func NotFound(w http.ResponseWriter, msg string) {
	Write(w, http.StatusNotFound, "not_found", msg)
}

// StatusFor maps a roster error to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	switch {
	case stderrors.Is(err, roster.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, roster.ErrInactive),
		stderrors.Is(err, roster.ErrNotWaitlisted),
		stderrors.Is(err, roster.ErrMeetupFull),
		stderrors.Is(err, roster.ErrCannotRemoveHost),
		stderrors.Is(err, roster.ErrVersionConflict):
		return http.StatusConflict
	case stderrors.Is(err, roster.ErrInvalidCapacity),
		stderrors.Is(err, roster.ErrMissingHost):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RosterError answers with the status, code and message for a roster
// error. Anything unrecognized is logged and answered as a 500.
func (e *ErrorLogger) RosterError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		e.LogServerError(w, r, msg, err, "")
		return
	}
	Write(w, status, roster.Code(err), roster.Message(err))
}

// LogServerError logs err with request context and answers 500 with
// userMsg (or a generic message).
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("user_id", auth.UserID(r)),
	)
	if userMsg == "" {
		userMsg = "Something went wrong. Please try again."
	}
	Write(w, http.StatusInternalServerError, "internal", userMsg)
}
