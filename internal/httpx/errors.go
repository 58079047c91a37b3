package httpx

import (
	"net/http"

	"github.com/shortlinkhq/shortlink/internal/errx"
)

// ErrorKindToStatus maps errx.Kind to HTTP status codes. Anything the
// handler does not recognize deliberately collapses to 500 so internal
// detail never leaks through an unexpected path.
func ErrorKindToStatus(kind errx.Kind) int {
	switch kind {
	case errx.NotFound:
		return http.StatusNotFound
	case errx.Conflict:
		return http.StatusConflict
	case errx.Invalid:
		return http.StatusBadRequest
	case errx.Unauthorized:
		return http.StatusUnauthorized
	case errx.Forbidden:
		return http.StatusForbidden
	case errx.Unavailable:
		return http.StatusServiceUnavailable
	case errx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKindToTitle maps errx.Kind to the JSON:API error title clients see.
func ErrorKindToTitle(kind errx.Kind) string {
	switch kind {
	case errx.NotFound:
		return "Not Found"
	case errx.Conflict:
		return "Conflict"
	case errx.Invalid:
		return "Bad Request"
	case errx.Unauthorized:
		return "Unauthorized"
	case errx.Forbidden:
		return "Forbidden"
	case errx.Unavailable:
		return "Service Unavailable"
	default:
		return "Internal Server Error"
	}
}
