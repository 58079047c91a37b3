package shortlink

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// slugUniqueConstraint is the unique index guarding global slug
// uniqueness; see internal/db/migrations.
const slugUniqueConstraint = "short_links_slug_unique"

func isSlugUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" &&
		pgErr.ConstraintName == slugUniqueConstraint
}
