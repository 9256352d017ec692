package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/gddo/httputil/header"
	"github.com/ix-apps/storage-render/internal/log"
)

const MaxBodyBytes = 1 * 1024 * 1024

// Error is returned by handlers to answer with a specific status.
// Field optionally names the request field at fault.
type Error struct {
	Status int
	Err    error
	Msg    string
	Field  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type HandlerFunc func(http.ResponseWriter, *http.Request) (interface{}, error)

type Router struct {
	*http.ServeMux
}

func (r *Router) AddHandler(method string, pattern string, handler HandlerFunc) {
	r.HandleFunc(fmt.Sprintf("%s %s", method, pattern), JSONResponseHandler(handler))
}

func NewRouter() Router {
	return Router{http.NewServeMux()}
}

func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}, allowUnknown bool) error {
	// From https://www.alexedwards.net/blog/how-to-properly-parse-a-json-request-body
	if r.Header.Get("Content-Type") != "" {
		value, _ := header.ParseValueAndParams(r.Header, "Content-Type")
		if value != "application/json" {
			return &Error{Status: http.StatusUnsupportedMediaType, Msg: "Content-Type header is not application/json"}
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if !allowUnknown {
		dec.DisallowUnknownFields()
	}

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			return &Error{Status: http.StatusBadRequest, Err: err, Msg: msg}

		case errors.Is(err, io.ErrUnexpectedEOF):
			return &Error{Status: http.StatusBadRequest, Err: err, Msg: "Request body contains badly-formed JSON"}

		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			return &Error{Status: http.StatusBadRequest, Err: err, Msg: msg, Field: unmarshalTypeError.Field}

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
			return &Error{Status: http.StatusBadRequest, Err: err, Msg: msg, Field: strings.Trim(fieldName, `"`)}

		case errors.Is(err, io.EOF):
			return &Error{Status: http.StatusBadRequest, Err: err, Msg: "Request body must not be empty"}

		case errors.As(err, &maxBytesError):
			msg := fmt.Sprintf("Request body must not be larger than %s", humanize.IBytes(uint64(maxBytesError.Limit)))
			return &Error{Status: http.StatusRequestEntityTooLarge, Err: err, Msg: msg}

		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return &Error{Status: http.StatusBadRequest, Msg: "Request body must only contain a single JSON object"}
	}

	return nil
}

// JSONResponseHandler encodes the handler's result as JSON. Errors are answered with
// an ErrorResponse body; anything that is not an *Error becomes a 500 without details.
func JSONResponseHandler(handler HandlerFunc) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		var apiErr *Error

		body, err := handler(w, r)
		if err != nil {
			if errors.As(err, &apiErr) {
				status = apiErr.Status
				body = &ErrorResponse{Error: apiErr.Error(), Field: apiErr.Field}
				log.Warning(r.Context(), "API error", "err", apiErr.Error(), "status", status)
			} else {
				status = http.StatusInternalServerError
				body = &ErrorResponse{Error: http.StatusText(status)}
				log.Error(r.Context(), "Unexpected API error", "err", err, "status", status)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}

		log.Debug(r.Context(), "", "method", r.Method, "endpoint", r.URL.Path, "status", status)
	}
}
