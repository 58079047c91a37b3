package shortlink

import (
	"time"

	"github.com/google/uuid"
)

// timeNow stamps mutations; tests swap it for a deterministic clock.
var timeNow = time.Now

// ShortLink maps a public slug to a destination URL plus bookkeeping
// metadata. Fields are unexported so every mutation goes through a method
// that refreshes updatedAt; skipping the stamp is not possible by
// construction. The type carries no validation; field-level validity is
// the Service's job.
//
// A ShortLink is not shared across goroutines: each operation loads a
// fresh copy from the repository, mutates it, and persists the whole
// record.
type ShortLink struct {
	id          uuid.UUID
	originalURL string
	slug        string
	owner       Owner
	createdAt   time.Time
	updatedAt   time.Time
	visitCount  int64
}

// New constructs a fresh link with zero visits and both timestamps set to
// the current time. The caller supplies the id and slug; generation lives
// in the Service.
func New(id uuid.UUID, originalURL, slug string, owner Owner) *ShortLink {
	now := timeNow()
	return &ShortLink{
		id:          id,
		originalURL: originalURL,
		slug:        slug,
		owner:       owner,
		createdAt:   now,
		updatedAt:   now,
	}
}

// Rehydrate reconstructs a link from stored fields.
func Rehydrate(id uuid.UUID, originalURL, slug string, owner Owner, createdAt, updatedAt time.Time, visitCount int64) *ShortLink {
	return &ShortLink{
		id:          id,
		originalURL: originalURL,
		slug:        slug,
		owner:       owner,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		visitCount:  visitCount,
	}
}

func (l *ShortLink) ID() uuid.UUID        { return l.id }
func (l *ShortLink) OriginalURL() string  { return l.originalURL }
func (l *ShortLink) Slug() string         { return l.slug }
func (l *ShortLink) Owner() Owner         { return l.owner }
func (l *ShortLink) CreatedAt() time.Time { return l.createdAt }
func (l *ShortLink) UpdatedAt() time.Time { return l.updatedAt }
func (l *ShortLink) VisitCount() int64    { return l.visitCount }

// SetOriginalURL replaces the destination and stamps updatedAt.
func (l *ShortLink) SetOriginalURL(originalURL string) {
	l.originalURL = originalURL
	l.updatedAt = timeNow()
}

// SetSlug replaces the slug and stamps updatedAt. Uniqueness is enforced
// by the Service and the storage constraint, not here.
func (l *ShortLink) SetSlug(slug string) {
	l.slug = slug
	l.updatedAt = timeNow()
}

// IncrementVisitCount adds one visit and stamps updatedAt.
func (l *ShortLink) IncrementVisitCount() {
	l.visitCount++
	l.updatedAt = timeNow()
}
