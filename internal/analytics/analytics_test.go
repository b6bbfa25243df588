package analytics

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/database"
	"reviewhub/internal/models"
)

func newTestService(t *testing.T) (*Service, *database.Database) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"), log)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewService(db), db
}

func createReview(t *testing.T, db *database.Database, category string, rating *int) uuid.UUID {
	t.Helper()

	review := &models.Review{
		ID:        uuid.New(),
		Title:     "Review",
		Content:   "Some content.",
		Category:  category,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := db.CreateReview(context.Background(), review); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	return review.ID
}

func linkSummary(t *testing.T, db *database.Database, reviewID uuid.UUID, sentiment string) {
	t.Helper()

	summary := &models.Summary{
		ID:        uuid.New(),
		Summary:   "A summary.",
		Sentiment: sentiment,
		Keywords:  []string{},
		Pros:      []string{},
		Cons:      []string{},
		CreatedAt: time.Now().UTC(),
	}
	if err := db.CreateSummary(context.Background(), summary); err != nil {
		t.Fatalf("failed to create summary: %v", err)
	}
	if err := db.LinkSummary(context.Background(), reviewID, summary.ID); err != nil {
		t.Fatalf("failed to link summary: %v", err)
	}
}

func intPtr(v int) *int {
	return &v
}

func TestOverviewEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("failed to get overview: %v", err)
	}

	if overview.TotalReviews != 0 {
		t.Fatalf("got %d total reviews, want 0", overview.TotalReviews)
	}
	if overview.AvgRating != nil {
		t.Fatalf("got avg rating %v, want nil", *overview.AvgRating)
	}
	if len(overview.CategoryStats) != 0 {
		t.Fatalf("got %d category stats, want 0", len(overview.CategoryStats))
	}
	if overview.SentimentStats.Total != 0 {
		t.Fatalf("got %d sentiments, want 0", overview.SentimentStats.Total)
	}
}

func TestOverviewAggregates(t *testing.T) {
	svc, db := newTestService(t)

	first := createReview(t, db, models.CategoryProduct, intPtr(5))
	second := createReview(t, db, models.CategoryProduct, intPtr(4))
	createReview(t, db, models.CategoryBook, nil)

	linkSummary(t, db, first, models.SentimentPositive)
	linkSummary(t, db, second, models.SentimentNegative)

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("failed to get overview: %v", err)
	}

	if overview.TotalReviews != 3 {
		t.Fatalf("got %d total reviews, want 3", overview.TotalReviews)
	}
	if overview.AvgRating == nil || *overview.AvgRating != 4.5 {
		t.Fatalf("got avg rating %v, want 4.5", overview.AvgRating)
	}

	if overview.SentimentStats.Positive != 1 || overview.SentimentStats.Negative != 1 {
		t.Fatalf("got sentiment stats %+v, want one positive and one negative", overview.SentimentStats)
	}
	if overview.SentimentStats.Total != 2 {
		t.Fatalf("got %d sentiments, want 2", overview.SentimentStats.Total)
	}

	if len(overview.CategoryStats) != 2 {
		t.Fatalf("got %d category stats, want 2", len(overview.CategoryStats))
	}

	book := overview.CategoryStats[0]
	if book.Category != models.CategoryBook || book.Count != 1 || book.AvgRating != nil {
		t.Fatalf("got book stats %+v, want count 1 and no rating", book)
	}

	product := overview.CategoryStats[1]
	if product.Category != models.CategoryProduct || product.Count != 2 {
		t.Fatalf("got product stats %+v, want count 2", product)
	}
	if product.AvgRating == nil || *product.AvgRating != 4.5 {
		t.Fatalf("got product avg rating %v, want 4.5", product.AvgRating)
	}
}

func TestOverviewRoundsAverage(t *testing.T) {
	svc, db := newTestService(t)

	createReview(t, db, models.CategoryMovie, intPtr(5))
	createReview(t, db, models.CategoryMovie, intPtr(4))
	createReview(t, db, models.CategoryMovie, intPtr(4))

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("failed to get overview: %v", err)
	}

	if overview.AvgRating == nil || *overview.AvgRating != 4.33 {
		t.Fatalf("got avg rating %v, want 4.33", overview.AvgRating)
	}
}
