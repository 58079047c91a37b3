package shortlink

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shortlinkhq/shortlink/internal/auth"
	"github.com/shortlinkhq/shortlink/internal/cache"
	"github.com/shortlinkhq/shortlink/internal/errx"
	"github.com/shortlinkhq/shortlink/internal/httpx"
)

// trackVisitTimeout bounds the detached visit-tracking call so an
// unresponsive database cannot pile up goroutines.
const trackVisitTimeout = 5 * time.Second

// Handler is the HTTP gateway: it resolves the caller identity, applies
// the ownership rule, and maps service failures to JSON:API errors with
// fixed status codes. Business rules stay in the Service.
type Handler struct {
	service Service
	cache   cache.DestinationCache
	logger  *slog.Logger
	baseURL string

	// afterTrack, when set, observes the outcome of each dispatched
	// visit-tracking call. Tests use it to synchronize with the
	// fire-and-forget goroutine.
	afterTrack func(slug string, err error)
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Cache   cache.DestinationCache // optional; nil disables caching
	Logger  *slog.Logger
	BaseURL string // base address for derived short URLs (e.g. "https://sl.ink")
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := cfg.Cache
	if c == nil {
		c = (*cache.Redis)(nil) // no-op cache
	}

	return &Handler{
		service: cfg.Service,
		cache:   c,
		logger:  logger,
		baseURL: cfg.BaseURL,
	}
}

// CreateLink handles POST /api/urls. The caller identity, when present,
// becomes the link's owner; anonymous creation yields an unowned, public
// link.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	payload, err := httpx.DecodeJSON[linkPayload](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode create request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	if payload.OriginalURL == "" {
		logger.WarnContext(ctx, "missing original url in create request")
		httpx.WriteError(w, http.StatusBadRequest, "Bad Request", "Original URL is required")
		return
	}

	owner := Unowned()
	if callerID, ok := auth.CallerID(ctx); ok {
		owner = OwnedBy(callerID)
	}

	link, err := h.service.Create(ctx, CreateParams{
		OriginalURL: payload.OriginalURL,
		Slug:        payload.Slug,
		Owner:       owner,
	})
	if err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	logger.InfoContext(ctx, "link created",
		"link_id", link.ID().String(),
		"slug", link.Slug(),
		"owned", link.Owner().Present(),
	)

	httpx.WriteData(w, http.StatusCreated, toResource(link, h.baseURL))
}

// ListLinks handles GET /api/urls: the caller's own links, newest first.
// This is the one endpoint that requires an identity.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	callerID, ok := auth.CallerID(ctx)
	if !ok {
		logger.WarnContext(ctx, "anonymous caller requested link listing")
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	links, err := h.service.GetByOwner(ctx, callerID)
	if err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	logger.InfoContext(ctx, "links listed", "caller", callerID, "count", len(links))
	httpx.WriteData(w, http.StatusOK, toResourceList(links, h.baseURL))
}

// GetLink handles GET /api/urls/{id}.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	link, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	if err := authorizeOwner(ctx, link); err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	httpx.WriteData(w, http.StatusOK, toResource(link, h.baseURL))
}

// UpdateLink handles PATCH /api/urls/{id}. Ownership never changes here,
// whoever the caller is.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	payload, err := httpx.DecodeJSON[linkPayload](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode update request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	if err := authorizeOwner(ctx, existing); err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	updated, err := h.service.Update(ctx, id, UpdateParams{
		OriginalURL: payload.OriginalURL,
		Slug:        payload.Slug,
	})
	if err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	// The record changed; whatever the cache holds for the old slug is
	// now stale.
	if err := h.cache.Invalidate(ctx, existing.Slug()); err != nil {
		logger.WarnContext(ctx, "failed to invalidate destination cache",
			"slug", existing.Slug(), "error", err.Error())
	}

	logger.InfoContext(ctx, "link updated", "link_id", id.String(), "slug", updated.Slug())
	httpx.WriteData(w, http.StatusOK, toResource(updated, h.baseURL))
}

// DeleteLink handles DELETE /api/urls/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	id, ok := h.pathID(w, r, logger)
	if !ok {
		return
	}

	link, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	if err := authorizeOwner(ctx, link); err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.respondError(ctx, w, logger, err)
		return
	}

	if err := h.cache.Invalidate(ctx, link.Slug()); err != nil {
		logger.WarnContext(ctx, "failed to invalidate destination cache",
			"slug", link.Slug(), "error", err.Error())
	}

	logger.InfoContext(ctx, "link deleted", "link_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// Redirect handles GET /{slug}: the public path. Redirection carries no
// ownership check. The response goes out before visit
// tracking is even dispatched; tracking failures are logged, never
// surfaced.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	slug := r.PathValue("slug")
	if slug == "" || len(slug) > MaxSlugLength {
		logger.WarnContext(ctx, "invalid slug in redirect path", "slug", slug)
		httpx.WriteError(w, http.StatusBadRequest, "Bad Request", "Invalid slug")
		return
	}

	destination, err := h.cache.Get(ctx, slug)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.WarnContext(ctx, "destination cache read failed", "slug", slug, "error", err.Error())
		}

		link, svcErr := h.service.GetBySlug(ctx, slug)
		if svcErr != nil {
			h.respondError(ctx, w, logger, svcErr)
			return
		}
		destination = link.OriginalURL()

		if err := h.cache.Set(ctx, slug, destination); err != nil {
			logger.WarnContext(ctx, "destination cache write failed", "slug", slug, "error", err.Error())
		}
	}

	logger.InfoContext(ctx, "redirecting",
		"slug", slug,
		"destination", destination,
		"referer", r.Referer(),
	)

	http.Redirect(w, r, destination, http.StatusFound)

	h.dispatchTrackVisit(slug)
}

// dispatchTrackVisit counts the visit on a detached goroutine. The
// request context is already done for the client, so the call runs under
// its own deadline and only the log sees the outcome.
func (h *Handler) dispatchTrackVisit(slug string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), trackVisitTimeout)
		defer cancel()

		link, err := h.service.TrackVisit(ctx, slug)
		if err != nil {
			h.logger.Error("visit tracking failed", "slug", slug, "error", err.Error())
		} else {
			h.logger.Debug("visit tracked", "slug", slug, "visit_count", link.VisitCount())
		}

		if h.afterTrack != nil {
			h.afterTrack(slug, err)
		}
	}()
}

// authorizeOwner applies the ownership rule: an owned link is private to
// its owner, an unowned link is open to everyone including anonymous
// callers.
func authorizeOwner(ctx context.Context, link *ShortLink) error {
	const op = "shortlink.handler.authorizeOwner"

	if !link.Owner().Present() {
		return nil
	}

	callerID, ok := auth.CallerID(ctx)
	if !ok || !link.Owner().Is(callerID) {
		return errx.Errorf(op, errx.Forbidden, "caller %q does not own link %s", callerID, link.ID())
	}
	return nil
}

// pathID parses the {id} path value, answering 400 for anything that is
// not a UUID.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.WarnContext(r.Context(), "malformed link id", "id", raw)
		httpx.WriteError(w, http.StatusBadRequest, "Bad Request", "Link id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// respondError maps a service failure to its fixed status code and a safe
// detail message. Unrecognized failures collapse to a generic 500 with no
// internal detail.
func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind.String(),
		"operation", errx.OpOf(err),
	}

	var detail string
	switch kind {
	case errx.NotFound:
		logger.WarnContext(ctx, "link not found", logAttrs...)
		detail = "URL not found"

	case errx.Conflict:
		logger.WarnContext(ctx, "slug conflict", logAttrs...)
		detail = "Slug is already in use"

	case errx.Invalid:
		logger.WarnContext(ctx, "invalid request", logAttrs...)
		// Validation messages carry no internals; pass them through.
		detail = causeMessage(err)

	case errx.Forbidden:
		logger.WarnContext(ctx, "ownership violation", logAttrs...)
		detail = "You do not have permission to access this URL"

	case errx.Unauthorized:
		logger.WarnContext(ctx, "missing identity", logAttrs...)
		detail = "Authentication required"

	case errx.Unavailable:
		logger.ErrorContext(ctx, "storage unavailable", logAttrs...)
		detail = "The service is temporarily unavailable. Please try again."

	default:
		logger.ErrorContext(ctx, "unexpected error", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError,
			"Internal Server Error", "An unexpected error occurred")
		return
	}

	status := httpx.ErrorKindToStatus(kind)
	httpx.WriteError(w, status, httpx.ErrorKindToTitle(kind), detail)
}

// causeMessage unwraps the errx envelope to the underlying message.
func causeMessage(err error) string {
	var e *errx.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err.Error()
	}
	return err.Error()
}
