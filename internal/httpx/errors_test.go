package httpx

import (
	"net/http"
	"testing"

	"github.com/shortlinkhq/shortlink/internal/errx"
)

func TestErrorKindToStatus(t *testing.T) {
	tests := []struct {
		kind errx.Kind
		want int
	}{
		{errx.NotFound, http.StatusNotFound},
		{errx.Conflict, http.StatusConflict},
		{errx.Invalid, http.StatusBadRequest},
		{errx.Unauthorized, http.StatusUnauthorized},
		{errx.Forbidden, http.StatusForbidden},
		{errx.Unavailable, http.StatusServiceUnavailable},
		{errx.Internal, http.StatusInternalServerError},
		{errx.Unknown, http.StatusInternalServerError},
		{errx.Kind(99), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ErrorKindToStatus(tt.kind); got != tt.want {
			t.Errorf("ErrorKindToStatus(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestErrorKindToTitle(t *testing.T) {
	tests := []struct {
		kind errx.Kind
		want string
	}{
		{errx.NotFound, "Not Found"},
		{errx.Conflict, "Conflict"},
		{errx.Invalid, "Bad Request"},
		{errx.Unauthorized, "Unauthorized"},
		{errx.Forbidden, "Forbidden"},
		{errx.Unavailable, "Service Unavailable"},
		{errx.Internal, "Internal Server Error"},
		{errx.Unknown, "Internal Server Error"},
	}

	for _, tt := range tests {
		if got := ErrorKindToTitle(tt.kind); got != tt.want {
			t.Errorf("ErrorKindToTitle(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
