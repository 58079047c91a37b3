package shortlink

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the durable store for ShortLink records, keyed by id and
// by slug. Implementations own the record between requests; the entity a
// method returns is a private copy the caller may mutate freely.
//
// Lookups return errx.NotFound when the record is absent. Save and Update
// return errx.Conflict when the slug uniqueness constraint rejects the
// write. The storage constraint is the authoritative guard; the Service's
// IsSlugUnique pre-check is only a fast path.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ShortLink, error)
	FindBySlug(ctx context.Context, slug string) (*ShortLink, error)

	// FindByOwner returns the owner's links ordered newest-created-first.
	// No links is an empty slice, not an error.
	FindByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error)

	// Save inserts a new record and returns the persisted link.
	// Fails with errx.Conflict if the id or slug already exists.
	Save(ctx context.Context, link *ShortLink) (*ShortLink, error)

	// Update overwrites the mutable fields of an existing record by id and
	// returns the persisted link. Fails with errx.NotFound if the id does
	// not exist.
	Update(ctx context.Context, link *ShortLink) (*ShortLink, error)

	// Delete removes the record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// IsSlugUnique reports whether no record currently holds slug.
	IsSlugUnique(ctx context.Context, slug string) (bool, error)

	// IncrementVisits atomically adds one visit to the link holding slug
	// and returns the updated record. The increment happens in a single
	// storage round-trip so concurrent visits never lose updates.
	IncrementVisits(ctx context.Context, slug string) (*ShortLink, error)
}
