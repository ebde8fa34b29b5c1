package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

const bookmarkColumns = `id, title, url, description, rating, created_at`

// List returns all bookmarks ordered by creation time.
func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	const op = "store.postgres.List"

	rows, err := s.db.Query(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookmarks, err := pgx.CollectRows(rows, scanBookmark)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if bookmarks == nil {
		bookmarks = []domain.Bookmark{}
	}
	return bookmarks, nil
}

// Get finds a bookmark by id. Ids that are not UUIDs cannot exist in the
// table and resolve to store.ErrNotFound without a round trip.
func (s *Store) Get(ctx context.Context, id string) (domain.Bookmark, error) {
	const op = "store.postgres.Get"

	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+bookmarkColumns+`
		FROM bookmarks
		WHERE id = $1
	`, uid)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBookmark)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Bookmark{}, fmt.Errorf("%s: %w", op, store.ErrNotFound)
		}
		return domain.Bookmark{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// Insert creates a bookmark with a new UUID and returns the stored row.
func (s *Store) Insert(ctx context.Context, nb domain.NewBookmark) (domain.Bookmark, error) {
	const op = "store.postgres.Insert"

	rows, err := s.db.Query(ctx, `
		INSERT INTO bookmarks (id, title, url, description, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+bookmarkColumns,
		uuid.New(), nb.Title, nb.URL, nb.Description, nb.Rating,
	)
	if err != nil {
		return domain.Bookmark{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, scanBookmark)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && isConstraintViolation(pgErr.Code) {
			return domain.Bookmark{}, fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, store.ErrConstraint)
		}
		return domain.Bookmark{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// Delete removes a bookmark and reports whether a row was deleted.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	const op = "store.postgres.Delete"

	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1`, uid)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanBookmark(row pgx.CollectableRow) (domain.Bookmark, error) {
	var (
		b         domain.Bookmark
		id        uuid.UUID
		rating    int16
		createdAt time.Time
	)
	if err := row.Scan(&id, &b.Title, &b.URL, &b.Description, &rating, &createdAt); err != nil {
		return domain.Bookmark{}, err
	}
	b.ID = id.String()
	b.Rating = int(rating)
	b.CreatedAt = createdAt.UTC()
	return b, nil
}

func isConstraintViolation(code string) bool {
	switch code {
	case pgerrcode.CheckViolation, pgerrcode.UniqueViolation, pgerrcode.NotNullViolation:
		return true
	default:
		return false
	}
}
