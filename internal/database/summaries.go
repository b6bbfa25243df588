package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"reviewhub/internal/models"
)

const summaryColumns = "id, summary, sentiment, sentiment_score, keywords, pros, cons, ai_model, created_at"

func (d *Database) CreateSummary(ctx context.Context, s *models.Summary) error {
	keywords, err := json.Marshal(emptyListIfNil(s.Keywords))
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	pros, err := json.Marshal(emptyListIfNil(s.Pros))
	if err != nil {
		return fmt.Errorf("marshal pros: %w", err)
	}
	cons, err := json.Marshal(emptyListIfNil(s.Cons))
	if err != nil {
		return fmt.Errorf("marshal cons: %w", err)
	}

	query := `insert into summaries (` + summaryColumns + `)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = d.db.ExecContext(ctx, query,
		s.ID.String(),
		s.Summary,
		s.Sentiment,
		s.SentimentScore,
		string(keywords),
		string(pros),
		string(cons),
		nullableString(s.AIModel),
		s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}

	return nil
}

// GetSummary returns nil without an error when no summary matches.
func (d *Database) GetSummary(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	query := `select ` + summaryColumns + ` from summaries where id = ?`

	row := d.db.QueryRowContext(ctx, query, id.String())

	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan summary: %w", err)
	}

	return summary, nil
}

func (d *Database) ListSummaries(ctx context.Context, page, perPage int) ([]models.Summary, error) {
	query := `select ` + summaryColumns + ` from summaries
	order by created_at desc
	limit ? offset ?`

	rows, err := d.db.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "ListSummaries")
		}
	}()

	summaries := []models.Summary{}
	for rows.Next() {
		summary, scanErr := scanSummary(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan row: %w", scanErr)
		}

		summaries = append(summaries, *summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return summaries, nil
}

// ListSentiments returns the sentiment label of every summary, for
// analytics aggregation.
func (d *Database) ListSentiments(ctx context.Context) ([]string, error) {
	query := "select sentiment from summaries"

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "ListSentiments")
		}
	}()

	var sentiments []string
	for rows.Next() {
		var sentiment string
		if err = rows.Scan(&sentiment); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		sentiments = append(sentiments, sentiment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return sentiments, nil
}

// CategoryRating is a single review's category and optional rating, the
// unit of analytics aggregation.
type CategoryRating struct {
	Category string
	Rating   *int
}

func (d *Database) ListCategoryRatings(ctx context.Context) ([]CategoryRating, error) {
	query := "select category, rating from reviews"

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "ListCategoryRatings")
		}
	}()

	var items []CategoryRating
	for rows.Next() {
		var (
			item   CategoryRating
			rating sql.NullInt64
		)

		if err = rows.Scan(&item.Category, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if rating.Valid {
			v := int(rating.Int64)
			item.Rating = &v
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return items, nil
}

func scanSummary(row rowScanner) (*models.Summary, error) {
	var (
		s        models.Summary
		id       string
		keywords string
		pros     string
		cons     string
		aiModel  sql.NullString
	)

	err := row.Scan(
		&id,
		&s.Summary,
		&s.Sentiment,
		&s.SentimentScore,
		&keywords,
		&pros,
		&cons,
		&aiModel,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse summary id: %w", err)
	}

	if err = json.Unmarshal([]byte(keywords), &s.Keywords); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	if err = json.Unmarshal([]byte(pros), &s.Pros); err != nil {
		return nil, fmt.Errorf("parse pros: %w", err)
	}
	if err = json.Unmarshal([]byte(cons), &s.Cons); err != nil {
		return nil, fmt.Errorf("parse cons: %w", err)
	}

	if aiModel.Valid {
		v := aiModel.String
		s.AIModel = &v
	}

	return &s, nil
}

func emptyListIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
