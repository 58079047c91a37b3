package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// ErrorObject is one member of a JSON:API error envelope.
type ErrorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// errorDocument is the JSON:API error envelope.
type errorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// dataDocument wraps a successful response in a JSON:API data envelope.
type dataDocument struct {
	Data any `json:"data"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing left to do but log.
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// WriteData writes resource under a JSON:API "data" envelope.
func WriteData(w http.ResponseWriter, status int, resource any) {
	WriteJSON(w, status, dataDocument{Data: resource})
}

// WriteError writes a single-error JSON:API envelope. The detail must be
// safe for clients; internal causes belong in logs, not here.
func WriteError(w http.ResponseWriter, status int, title, detail string) {
	WriteErrors(w, status, ErrorObject{
		Status: strconv.Itoa(status),
		Title:  title,
		Detail: detail,
	})
}

// WriteErrors writes a JSON:API envelope carrying the given error objects.
// The response status is taken from the status argument, not the members.
func WriteErrors(w http.ResponseWriter, status int, errs ...ErrorObject) {
	WriteJSON(w, status, errorDocument{Errors: errs})
}
