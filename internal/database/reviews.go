package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"reviewhub/internal/models"
)

const reviewColumns = "id, title, content, category, rating, source, author_id, summary_id, created_at, updated_at"

func (d *Database) CreateReview(ctx context.Context, r *models.Review) error {
	query := `insert into reviews (` + reviewColumns + `)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := d.db.ExecContext(ctx, query,
		r.ID.String(),
		r.Title,
		r.Content,
		r.Category,
		nullableInt(r.Rating),
		nullableString(r.Source),
		nullableUUID(r.AuthorID),
		nullableUUID(r.SummaryID),
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetReview returns nil without an error when no review matches.
func (d *Database) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	query := `select ` + reviewColumns + ` from reviews where id = ?`

	row := d.db.QueryRowContext(ctx, query, id.String())

	review, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return review, nil
}

func (d *Database) ListReviews(
	ctx context.Context,
	page int,
	perPage int,
	category string,
) ([]models.Review, int, error) {
	var (
		where string
		args  []any
	)

	if category != "" {
		where = "where category = ?"
		args = append(args, category)
	}

	var total int
	countQuery := "select count(*) from reviews " + where
	if err := d.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := fmt.Sprintf(`select %s from reviews %s
	order by created_at desc
	limit ? offset ?`, reviewColumns, where)
	args = append(args, perPage, (page-1)*perPage)

	reviews, err := d.queryReviews(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// SearchReviews matches a case-insensitive substring of title or content.
func (d *Database) SearchReviews(
	ctx context.Context,
	search string,
	page int,
	perPage int,
) ([]models.Review, int, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
	where := "where lower(title) like ? or lower(content) like ?"

	var total int
	countQuery := "select count(*) from reviews " + where
	if err := d.db.QueryRowContext(ctx, countQuery, pattern, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count matching reviews: %w", err)
	}

	query := fmt.Sprintf(`select %s from reviews %s
	order by created_at desc
	limit ? offset ?`, reviewColumns, where)

	reviews, err := d.queryReviews(ctx, query, pattern, pattern, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (d *Database) UpdateReview(ctx context.Context, r *models.Review) error {
	query := `update reviews
	set title = ?, content = ?, category = ?, rating = ?, source = ?, updated_at = ?
	where id = ?`

	_, err := d.db.ExecContext(ctx, query,
		r.Title,
		r.Content,
		r.Category,
		nullableInt(r.Rating),
		nullableString(r.Source),
		r.UpdatedAt,
		r.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

func (d *Database) DeleteReview(ctx context.Context, id uuid.UUID) (bool, error) {
	query := "delete from reviews where id = ?"

	result, err := d.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("count deleted rows: %w", err)
	}

	return affected > 0, nil
}

func (d *Database) LinkSummary(ctx context.Context, reviewID, summaryID uuid.UUID) error {
	query := "update reviews set summary_id = ? where id = ?"

	_, err := d.db.ExecContext(ctx, query, summaryID.String(), reviewID.String())
	if err != nil {
		return fmt.Errorf("link summary: %w", err)
	}

	return nil
}

// ListReviewsWithoutSummary returns the oldest unsummarized reviews,
// capped at limit, for the backfill job.
func (d *Database) ListReviewsWithoutSummary(ctx context.Context, limit int) ([]models.Review, error) {
	query := `select ` + reviewColumns + ` from reviews
	where summary_id is null
	order by created_at asc
	limit ?`

	return d.queryReviews(ctx, query, limit)
}

func (d *Database) queryReviews(ctx context.Context, query string, args ...any) ([]models.Review, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "queryReviews")
		}
	}()

	reviews := []models.Review{}
	for rows.Next() {
		review, scanErr := scanReview(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan row: %w", scanErr)
		}

		reviews = append(reviews, *review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return reviews, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*models.Review, error) {
	var (
		r         models.Review
		id        string
		rating    sql.NullInt64
		source    sql.NullString
		authorID  sql.NullString
		summaryID sql.NullString
	)

	err := row.Scan(
		&id,
		&r.Title,
		&r.Content,
		&r.Category,
		&rating,
		&source,
		&authorID,
		&summaryID,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse review id: %w", err)
	}

	if rating.Valid {
		v := int(rating.Int64)
		r.Rating = &v
	}
	if source.Valid {
		v := source.String
		r.Source = &v
	}
	if r.AuthorID, err = parseNullUUID(authorID); err != nil {
		return nil, fmt.Errorf("parse author id: %w", err)
	}
	if r.SummaryID, err = parseNullUUID(summaryID); err != nil {
		return nil, fmt.Errorf("parse summary id: %w", err)
	}

	return &r, nil
}

func parseNullUUID(v sql.NullString) (*uuid.UUID, error) {
	if !v.Valid {
		return nil, nil
	}

	id, err := uuid.Parse(v.String)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableUUID(v *uuid.UUID) any {
	if v == nil {
		return nil
	}
	return v.String()
}
