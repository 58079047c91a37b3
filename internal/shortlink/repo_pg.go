package shortlink

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shortlinkhq/shortlink/internal/errx"
)

// pgRepo implements Repository on PostgreSQL. The short_links table carries
// the unique slug index, so uniqueness holds even when concurrent writers
// pass the Service's pre-check simultaneously.
type pgRepo struct {
	pool *pgxpool.Pool
}

// NewPgRepository returns a Repository backed by the given connection pool.
func NewPgRepository(pool *pgxpool.Pool) Repository {
	return &pgRepo{pool: pool}
}

// linkRow mirrors one short_links row.
type linkRow struct {
	ID          uuid.UUID
	OriginalURL string
	Slug        string
	OwnerID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	VisitCount  int64
}

func (r linkRow) toDomain() *ShortLink {
	owner := Unowned()
	if r.OwnerID != nil {
		owner = OwnedBy(*r.OwnerID)
	}
	return Rehydrate(r.ID, r.OriginalURL, r.Slug, owner, r.CreatedAt, r.UpdatedAt, r.VisitCount)
}

func ownerParam(o Owner) *string {
	if !o.Present() {
		return nil
	}
	id := o.ID()
	return &id
}

func scanLink(row pgx.Row) (*ShortLink, error) {
	var lr linkRow
	err := row.Scan(&lr.ID, &lr.OriginalURL, &lr.Slug, &lr.OwnerID, &lr.CreatedAt, &lr.UpdatedAt, &lr.VisitCount)
	if err != nil {
		return nil, err
	}
	return lr.toDomain(), nil
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return errx.E(op, errx.NotFound, err)

	case isSlugUniqueViolation(err):
		return errx.E(op, errx.Conflict, err)

	default:
		return errx.E(op, errx.Unavailable, err)
	}
}

const linkColumns = `id, original_url, slug, owner_id, created_at, updated_at, visit_count`

func (r *pgRepo) FindByID(ctx context.Context, id uuid.UUID) (*ShortLink, error) {
	const op = "shortlink.repo.FindByID"

	row := r.pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM short_links WHERE id = $1`, id)

	link, err := scanLink(row)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return link, nil
}

func (r *pgRepo) FindBySlug(ctx context.Context, slug string) (*ShortLink, error) {
	const op = "shortlink.repo.FindBySlug"

	row := r.pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM short_links WHERE slug = $1`, slug)

	link, err := scanLink(row)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return link, nil
}

func (r *pgRepo) FindByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error) {
	const op = "shortlink.repo.FindByOwner"

	rows, err := r.pool.Query(ctx,
		`SELECT `+linkColumns+` FROM short_links
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	defer rows.Close()

	links := []*ShortLink{}
	for rows.Next() {
		var lr linkRow
		if err := rows.Scan(&lr.ID, &lr.OriginalURL, &lr.Slug, &lr.OwnerID, &lr.CreatedAt, &lr.UpdatedAt, &lr.VisitCount); err != nil {
			return nil, mapRepoError(op, err)
		}
		links = append(links, lr.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, mapRepoError(op, err)
	}
	return links, nil
}

func (r *pgRepo) Save(ctx context.Context, link *ShortLink) (*ShortLink, error) {
	const op = "shortlink.repo.Save"

	row := r.pool.QueryRow(ctx,
		`INSERT INTO short_links (id, original_url, slug, owner_id, created_at, updated_at, visit_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+linkColumns,
		link.ID(), link.OriginalURL(), link.Slug(), ownerParam(link.Owner()),
		link.CreatedAt(), link.UpdatedAt(), link.VisitCount())

	saved, err := scanLink(row)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return saved, nil
}

func (r *pgRepo) Update(ctx context.Context, link *ShortLink) (*ShortLink, error) {
	const op = "shortlink.repo.Update"

	// owner_id is deliberately absent: ownership is immutable after create.
	row := r.pool.QueryRow(ctx,
		`UPDATE short_links
		 SET original_url = $1, slug = $2, updated_at = $3, visit_count = $4
		 WHERE id = $5
		 RETURNING `+linkColumns,
		link.OriginalURL(), link.Slug(), link.UpdatedAt(), link.VisitCount(), link.ID())

	updated, err := scanLink(row)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return updated, nil
}

func (r *pgRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "shortlink.repo.Delete"

	if _, err := r.pool.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, id); err != nil {
		return mapRepoError(op, err)
	}
	return nil
}

func (r *pgRepo) IsSlugUnique(ctx context.Context, slug string) (bool, error) {
	const op = "shortlink.repo.IsSlugUnique"

	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_links WHERE slug = $1)`, slug).Scan(&taken)
	if err != nil {
		return false, mapRepoError(op, err)
	}
	return !taken, nil
}

func (r *pgRepo) IncrementVisits(ctx context.Context, slug string) (*ShortLink, error) {
	const op = "shortlink.repo.IncrementVisits"

	// Single-statement read-increment-write: concurrent visits to the same
	// slug serialize on the row and none of the increments is lost.
	row := r.pool.QueryRow(ctx,
		`UPDATE short_links
		 SET visit_count = visit_count + 1, updated_at = now()
		 WHERE slug = $1
		 RETURNING `+linkColumns, slug)

	link, err := scanLink(row)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return link, nil
}
