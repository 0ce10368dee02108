package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/templui/hoaxify/internal/ctxkeys"
	"github.com/templui/hoaxify/internal/i18n"
	"github.com/templui/hoaxify/internal/model"
	"github.com/templui/hoaxify/internal/service"
	"github.com/templui/hoaxify/internal/validation"
)

// Message keys used by the HTTP layer itself.
const (
	msgValidationFailure = "validation_failure"
	MsgUnexpectedError   = "unexpected_error"
	MsgTooManyRequests   = "too_many_requests"
	MsgRouteNotFound     = "route_not_found"
	msgMalformedRequest  = "malformed_request"
)

// ErrorResponse is the uniform failure body.
type ErrorResponse struct {
	Path             string           `json:"path"`
	Timestamp        int64            `json:"timestamp"`
	Message          string           `json:"message"`
	ValidationErrors validationFields `json:"validationErrors,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// validationFields is a field->message object that keeps insertion order on the wire.
type validationFields []fieldMessage

type fieldMessage struct {
	field   string
	message string
}

func (v validationFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fm := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fm.field)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(fm.message)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Responder writes JSON bodies with messages translated to the request locale.
type Responder struct {
	translator *i18n.Translator
	now        func() time.Time
}

func NewResponder(translator *i18n.Translator) *Responder {
	return &Responder{translator: translator, now: time.Now}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Message answers 200 with a translated {message}.
func (rs *Responder) Message(w http.ResponseWriter, r *http.Request, key string) {
	rs.JSON(w, http.StatusOK, MessageResponse{Message: rs.translate(r, key)})
}

// Fail answers with the uniform error body.
func (rs *Responder) Fail(w http.ResponseWriter, r *http.Request, status int, key string) {
	rs.JSON(w, status, ErrorResponse{
		Path:      r.URL.Path,
		Timestamp: rs.now().UnixMilli(),
		Message:   rs.translate(r, key),
	})
}

// Status returns a handler that always fails with status and key.
func (rs *Responder) Status(status int, key string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.Fail(w, r, status, key)
	})
}

// Error maps err onto a status code and the uniform error body.
// Unclassified errors are logged and answered with a generic 500.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		fields := make(validationFields, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fieldMessage{field: fe.Field, message: rs.translate(r, fe.Key)})
		}
		rs.JSON(w, http.StatusBadRequest, ErrorResponse{
			Path:             r.URL.Path,
			Timestamp:        rs.now().UnixMilli(),
			Message:          rs.translate(r, msgValidationFailure),
			ValidationErrors: fields,
		})
		return
	}

	var serviceErr *service.Error
	if errors.As(err, &serviceErr) {
		status := statusFor(serviceErr.Kind)
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "error", err, "path", r.URL.Path)
		}
		rs.Fail(w, r, status, serviceErr.Message)
		return
	}

	slog.Error("unexpected error", "error", err, "method", r.Method, "path", r.URL.Path)
	rs.Fail(w, r, http.StatusInternalServerError, MsgUnexpectedError)
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidToken, service.KindFileSize:
		return http.StatusBadRequest
	case service.KindEmailDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (rs *Responder) translate(r *http.Request, key string) string {
	return rs.translator.Translate(key, ctxkeys.Locale(r.Context()))
}

// Request body caps. A user update carries a base64 image of up to 2MB.
const (
	maxJSONBody       = 64 << 10
	maxUserUpdateBody = 3 << 20
)

// decodeJSON reads a JSON body of at most limit bytes into v. An empty body
// leaves v at its zero value. A larger body yields *http.MaxBytesError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// pathID parses an int64 path value. Unparsable ids map to 0, which never
// matches a stored row.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// pagination reads page and size query parameters.
// page outside 0..MaxPage or unparsable becomes 0; size outside 1..100 or
// unparsable becomes 10.
func pagination(r *http.Request) (page, size int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 || page > model.MaxPage {
		page = 0
	}
	size, err = strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}
	return page, size
}
