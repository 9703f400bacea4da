package server

import (
	"encoding/json"
	"errors"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"weatherfetcher/internal/weather"
)

// Envelope is the success envelope:
// {"data": ...}
type Envelope struct {
	Data any `json:"data,omitempty"`
}

// ErrorBody is the failure envelope:
// {"error":{"code":"...","message":"...","details":{...},"request_id":"..."}}
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, Envelope{Data: payload})
}

// writeError maps a pipeline error onto the wire. Taxonomy kinds map
// mechanically; anything else is an internal error whose detail stays in
// the logs.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := requestIDFrom(r)

	var we *weather.Error
	if errors.As(err, &we) {
		writeJSON(w, statusFromKind(we.Kind), ErrorBody{
			Error: ErrorPayload{
				Code:      string(we.Kind),
				Message:   we.Message,
				Details:   we.Details,
				RequestID: reqID,
			},
		})
		return
	}

	zlog.Error().Err(err).Msg("unhandled error")
	writeJSON(w, http.StatusInternalServerError, ErrorBody{
		Error: ErrorPayload{
			Code:      "internal_error",
			Message:   "internal error",
			RequestID: reqID,
		},
	})
}

func statusFromKind(kind weather.Kind) int {
	switch kind {
	case weather.KindInvalidInput, weather.KindUnknownCity:
		return http.StatusUnprocessableEntity
	case weather.KindBadRequest:
		return http.StatusBadRequest
	case weather.KindTimeout:
		return http.StatusGatewayTimeout
	case weather.KindNetworkUnavailable,
		weather.KindUpstreamUnavailable,
		weather.KindInternalProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
