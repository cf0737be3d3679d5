package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rustyeddy/tradebook/charges"
	"github.com/rustyeddy/tradebook/funds"
	"github.com/rustyeddy/tradebook/journal"
	"github.com/rustyeddy/tradebook/risk"
)

var errUnavailable = errors.New("not configured")

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var (
		cve *charges.ValidationError
		rve *risk.ValidationError
		req *requestError
	)
	switch {
	case errors.As(err, &req), errors.As(err, &cve), errors.As(err, &rve),
		errors.Is(err, charges.ErrOpenTrade):
		return http.StatusBadRequest
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, journal.ErrAlreadyClosed):
		return http.StatusConflict
	case errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, funds.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}

	var (
		cve *charges.ValidationError
		rve *risk.ValidationError
	)
	switch {
	case errors.As(err, &cve):
		body.Field = cve.Field
	case errors.As(err, &rve):
		body.Field = rve.Field
	}

	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		if status == http.StatusInternalServerError {
			body.Error = "internal error"
		}
	}
	writeJSON(w, status, body)
}

// requestError is a malformed request that never reached the calculators.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return badRequest("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
