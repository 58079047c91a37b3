package shortlink

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/shortlinkhq/shortlink/internal/errx"
	"github.com/shortlinkhq/shortlink/internal/idgen"
	"github.com/shortlinkhq/shortlink/sluggen"
)

const (
	// DefaultSlugLength is the length of generated slugs.
	DefaultSlugLength = 8
	MinSlugLength     = 1
	MaxSlugLength     = 50
	MaxURLLength      = 2048

	// DefaultCreateRetries bounds how many generated slugs Create tries
	// when the storage constraint reports a collision.
	DefaultCreateRetries = 3
)

// CreateParams are the normalized inputs for creating a link. Slug is
// optional; when empty a random one is generated. Owner records the caller
// identity resolved at the transport boundary.
type CreateParams struct {
	OriginalURL string
	Slug        string
	Owner       Owner
}

// UpdateParams are the normalized inputs for updating a link. Empty fields
// are left unchanged; both slug and URL have a minimum length of one, so
// the empty string is unambiguous as "absent".
type UpdateParams struct {
	OriginalURL string
	Slug        string
}

// Service implements the link business rules: the slug-uniqueness
// invariant on create and update, existence checks, and visit tracking.
// Authorization is the Gateway's concern and does not live here.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*ShortLink, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ShortLink, error)
	GetBySlug(ctx context.Context, slug string) (*ShortLink, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*ShortLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TrackVisit(ctx context.Context, slug string) (*ShortLink, error)
	IsValidURL(raw string) bool
}

type service struct {
	repo          Repository
	slugGenerator sluggen.Generator
	idGenerator   idgen.Generator
	slugLength    int
	createRetries int
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	SlugGenerator sluggen.Generator
	IDGenerator   idgen.Generator
	SlugLength    int
	CreateRetries int // attempts when a generated slug collides (default: 3)
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	slugGen := config.SlugGenerator
	if slugGen == nil {
		slugGen = sluggen.NewBase62()
	}

	idGen := config.IDGenerator
	if idGen == nil {
		idGen = idgen.NewV7()
	}

	slugLength := config.SlugLength
	if slugLength < MinSlugLength || slugLength > MaxSlugLength {
		slugLength = DefaultSlugLength
	}

	retries := config.CreateRetries
	if retries <= 0 {
		retries = DefaultCreateRetries
	}

	return &service{
		repo:          repo,
		slugGenerator: slugGen,
		idGenerator:   idGen,
		slugLength:    slugLength,
		createRetries: retries,
	}
}

// Create builds and persists a new link. A supplied slug is pre-checked
// with IsSlugUnique as a fast path; the check-then-insert window is closed
// by the storage constraint, whose rejection surfaces as the same
// errx.Conflict. A generated slug skips the pre-check and retries on the
// (very unlikely) collision.
func (s *service) Create(ctx context.Context, params CreateParams) (*ShortLink, error) {
	const op = "shortlink.service.Create"

	if err := validateURL(params.OriginalURL); err != nil {
		return nil, errx.E(op, errx.Invalid, err)
	}

	if params.Slug != "" {
		if err := validateSlug(params.Slug); err != nil {
			return nil, errx.E(op, errx.Invalid, err)
		}

		unique, err := s.repo.IsSlugUnique(ctx, params.Slug)
		if err != nil {
			return nil, errx.E(op, errx.KindOf(err), err)
		}
		if !unique {
			return nil, errx.Errorf(op, errx.Conflict, "slug %q is already in use", params.Slug)
		}

		return s.saveNew(ctx, op, params.OriginalURL, params.Slug, params.Owner)
	}

	for range s.createRetries {
		slug, err := s.slugGenerator.Generate(s.slugLength)
		if err != nil {
			return nil, errx.E(op, errx.Unavailable, err)
		}

		created, err := s.saveNew(ctx, op, params.OriginalURL, slug, params.Owner)
		if err == nil {
			return created, nil
		}
		if errx.KindOf(err) != errx.Conflict {
			return nil, err
		}
	}

	return nil, errx.E(op, errx.Unavailable,
		errors.New("could not generate unique slug after retries"))
}

func (s *service) saveNew(ctx context.Context, op, originalURL, slug string, owner Owner) (*ShortLink, error) {
	id, err := s.idGenerator.Generate()
	if err != nil {
		return nil, errx.E(op, errx.Unavailable, err)
	}

	saved, err := s.repo.Save(ctx, New(id, originalURL, slug, owner))
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return saved, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ShortLink, error) {
	const op = "shortlink.service.GetByID"

	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ShortLink, error) {
	const op = "shortlink.service.GetBySlug"

	if slug == "" {
		return nil, errx.E(op, errx.Invalid, errors.New("slug cannot be empty"))
	}

	link, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

// GetByOwner returns the owner's links, newest first. An owner with no
// links gets an empty slice, not an error.
func (s *service) GetByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error) {
	const op = "shortlink.service.GetByOwner"

	if ownerID == "" {
		return nil, errx.E(op, errx.Invalid, errors.New("owner id cannot be empty"))
	}

	links, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return links, nil
}

// Update loads the link, applies the supplied fields, and persists the
// whole record. A slug change repeats the uniqueness check; the original
// record is untouched when the change conflicts.
func (s *service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*ShortLink, error) {
	const op = "shortlink.service.Update"

	link, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}

	if params.Slug != "" && params.Slug != link.Slug() {
		if err := validateSlug(params.Slug); err != nil {
			return nil, errx.E(op, errx.Invalid, err)
		}

		unique, err := s.repo.IsSlugUnique(ctx, params.Slug)
		if err != nil {
			return nil, errx.E(op, errx.KindOf(err), err)
		}
		if !unique {
			return nil, errx.Errorf(op, errx.Conflict, "slug %q is already in use", params.Slug)
		}
		link.SetSlug(params.Slug)
	}

	if params.OriginalURL != "" {
		if err := validateURL(params.OriginalURL); err != nil {
			return nil, errx.E(op, errx.Invalid, err)
		}
		link.SetOriginalURL(params.OriginalURL)
	}

	updated, err := s.repo.Update(ctx, link)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return updated, nil
}

// Delete removes the link, failing with errx.NotFound when the id does
// not exist.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "shortlink.service.Delete"

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

// TrackVisit counts one visit for the slug through the repository's atomic
// increment. Callers on the redirect path dispatch it after the response;
// its failure must never block or fail a redirect.
func (s *service) TrackVisit(ctx context.Context, slug string) (*ShortLink, error) {
	const op = "shortlink.service.TrackVisit"

	if slug == "" {
		return nil, errx.E(op, errx.Invalid, errors.New("slug cannot be empty"))
	}

	link, err := s.repo.IncrementVisits(ctx, slug)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	return link, nil
}

// IsValidURL reports syntactic well-formedness only; it never touches the
// network.
func (s *service) IsValidURL(raw string) bool {
	return validateURL(raw) == nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("url cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return errors.New("url too long (max 2048 characters)")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid url format")
	}
	if parsedURL.Scheme == "" {
		return errors.New("url must include scheme (http or https)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return errors.New("url must include host")
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return errors.New("slug cannot be empty")
	}
	if len(slug) > MaxSlugLength {
		return errors.New("slug too long (maximum 50 characters)")
	}

	if strings.HasPrefix(slug, "-") || strings.HasPrefix(slug, "_") ||
		strings.HasSuffix(slug, "-") || strings.HasSuffix(slug, "_") {
		return errors.New("slug cannot start or end with dash or underscore")
	}

	for _, char := range slug {
		if !isValidSlugChar(char) {
			return errors.New("slug contains invalid characters (only alphanumeric, dash, and underscore allowed)")
		}
	}
	return nil
}

func isValidSlugChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	default:
		return false
	}
}
