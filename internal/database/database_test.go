package database

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))

	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"), log)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

func newTestReview(title, category string, rating *int, createdAt time.Time) *models.Review {
	return &models.Review{
		ID:        uuid.New(),
		Title:     title,
		Content:   "content of " + title,
		Category:  category,
		Rating:    rating,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestCreateAndGetReview(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	author := uuid.New()
	source := "https://example.com/item"
	review := newTestReview("Solid laptop", models.CategoryProduct, intPtr(4), time.Now().UTC())
	review.AuthorID = &author
	review.Source = &source

	if err := db.CreateReview(ctx, review); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	got, err := db.GetReview(ctx, review.ID)
	if err != nil {
		t.Fatalf("failed to get review: %v", err)
	}
	if got == nil {
		t.Fatal("expected review, got nil")
	}

	if got.Title != review.Title {
		t.Errorf("title mismatch: got %q want %q", got.Title, review.Title)
	}
	if got.Category != models.CategoryProduct {
		t.Errorf("category mismatch: got %q", got.Category)
	}
	if got.Rating == nil || *got.Rating != 4 {
		t.Errorf("rating mismatch: got %v", got.Rating)
	}
	if got.Source == nil || *got.Source != source {
		t.Errorf("source mismatch: got %v", got.Source)
	}
	if got.AuthorID == nil || *got.AuthorID != author {
		t.Errorf("author mismatch: got %v", got.AuthorID)
	}
	if got.SummaryID != nil {
		t.Errorf("expected no summary link, got %v", got.SummaryID)
	}
}

func TestGetReviewNotFound(t *testing.T) {
	db := newTestDatabase(t)

	got, err := db.GetReview(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing review, got %+v", got)
	}
}

func TestListReviewsPagination(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		review := newTestReview("review", models.CategoryBook, nil, base.Add(time.Duration(i)*time.Minute))
		if err := db.CreateReview(ctx, review); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	items, total, err := db.ListReviews(ctx, 1, 2, "")
	if err != nil {
		t.Fatalf("failed to list reviews: %v", err)
	}
	if total != 5 {
		t.Errorf("total mismatch: got %d want 5", total)
	}
	if len(items) != 2 {
		t.Errorf("page size mismatch: got %d want 2", len(items))
	}

	items, _, err = db.ListReviews(ctx, 3, 2, "")
	if err != nil {
		t.Fatalf("failed to list last page: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("last page size mismatch: got %d want 1", len(items))
	}

	// Newest first.
	items, _, err = db.ListReviews(ctx, 1, 5, "")
	if err != nil {
		t.Fatalf("failed to list all reviews: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatalf("reviews not ordered newest first at index %d", i)
		}
	}
}

func TestListReviewsCategoryFilter(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, category := range []string{models.CategoryBook, models.CategoryMovie, models.CategoryBook} {
		if err := db.CreateReview(ctx, newTestReview("review", category, nil, now)); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	items, total, err := db.ListReviews(ctx, 1, 10, models.CategoryBook)
	if err != nil {
		t.Fatalf("failed to list reviews: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 book reviews, got total=%d len=%d", total, len(items))
	}
	for _, item := range items {
		if item.Category != models.CategoryBook {
			t.Errorf("unexpected category %q", item.Category)
		}
	}
}

func TestSearchReviews(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	now := time.Now().UTC()
	matching := newTestReview("An Amazing Espresso Machine", models.CategoryProduct, nil, now)
	other := newTestReview("A dull film", models.CategoryMovie, nil, now)
	other.Content = "nothing to see here"

	for _, review := range []*models.Review{matching, other} {
		if err := db.CreateReview(ctx, review); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	items, total, err := db.SearchReviews(ctx, "espresso", 1, 10)
	if err != nil {
		t.Fatalf("failed to search reviews: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 match, got total=%d len=%d", total, len(items))
	}
	if items[0].ID != matching.ID {
		t.Errorf("unexpected match: %v", items[0].ID)
	}

	// Content matches too.
	items, _, err = db.SearchReviews(ctx, "NOTHING TO SEE", 1, 10)
	if err != nil {
		t.Fatalf("failed to search reviews: %v", err)
	}
	if len(items) != 1 || items[0].ID != other.ID {
		t.Fatalf("expected content match, got %v", items)
	}
}

func TestUpdateReview(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	review := newTestReview("Before", models.CategoryOther, nil, time.Now().UTC())
	if err := db.CreateReview(ctx, review); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	review.Title = "After"
	review.Rating = intPtr(5)
	review.UpdatedAt = time.Now().UTC()
	if err := db.UpdateReview(ctx, review); err != nil {
		t.Fatalf("failed to update review: %v", err)
	}

	got, err := db.GetReview(ctx, review.ID)
	if err != nil {
		t.Fatalf("failed to get review: %v", err)
	}
	if got.Title != "After" {
		t.Errorf("title not updated: got %q", got.Title)
	}
	if got.Rating == nil || *got.Rating != 5 {
		t.Errorf("rating not updated: got %v", got.Rating)
	}
}

func TestDeleteReview(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	review := newTestReview("Doomed", models.CategoryOther, nil, time.Now().UTC())
	if err := db.CreateReview(ctx, review); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	deleted, err := db.DeleteReview(ctx, review.ID)
	if err != nil {
		t.Fatalf("failed to delete review: %v", err)
	}
	if !deleted {
		t.Fatal("expected deletion to report true")
	}

	deleted, err = db.DeleteReview(ctx, review.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Fatal("expected second deletion to report false")
	}
}

func TestSummaryRoundTripAndLink(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	review := newTestReview("Linked", models.CategoryProduct, nil, time.Now().UTC())
	if err := db.CreateReview(ctx, review); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	model := "gpt-4o-mini"
	summary := &models.Summary{
		ID:             uuid.New(),
		Summary:        "Concise take.",
		Sentiment:      models.SentimentMixed,
		SentimentScore: 0.1,
		Keywords:       []string{"take"},
		Pros:           []string{"short"},
		Cons:           []string{},
		AIModel:        &model,
		CreatedAt:      time.Now().UTC(),
	}

	if err := db.CreateSummary(ctx, summary); err != nil {
		t.Fatalf("failed to create summary: %v", err)
	}
	if err := db.LinkSummary(ctx, review.ID, summary.ID); err != nil {
		t.Fatalf("failed to link summary: %v", err)
	}

	got, err := db.GetSummary(ctx, summary.ID)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if got == nil {
		t.Fatal("expected summary, got nil")
	}
	if got.Sentiment != models.SentimentMixed {
		t.Errorf("sentiment mismatch: got %q", got.Sentiment)
	}
	if len(got.Keywords) != 1 || got.Keywords[0] != "take" {
		t.Errorf("keywords mismatch: got %v", got.Keywords)
	}
	if got.Cons == nil || len(got.Cons) != 0 {
		t.Errorf("expected empty cons list, got %v", got.Cons)
	}
	if got.AIModel == nil || *got.AIModel != model {
		t.Errorf("ai model mismatch: got %v", got.AIModel)
	}

	linked, err := db.GetReview(ctx, review.ID)
	if err != nil {
		t.Fatalf("failed to get review: %v", err)
	}
	if linked.SummaryID == nil || *linked.SummaryID != summary.ID {
		t.Errorf("summary link mismatch: got %v", linked.SummaryID)
	}
}

func TestListReviewsWithoutSummary(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	now := time.Now().UTC()
	summarized := newTestReview("Summarized", models.CategoryBook, nil, now)
	pending := newTestReview("Pending", models.CategoryBook, nil, now.Add(time.Minute))

	for _, review := range []*models.Review{summarized, pending} {
		if err := db.CreateReview(ctx, review); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}

	summary := &models.Summary{
		ID:        uuid.New(),
		Summary:   "Done.",
		Sentiment: models.SentimentNeutral,
		CreatedAt: now,
	}
	if err := db.CreateSummary(ctx, summary); err != nil {
		t.Fatalf("failed to create summary: %v", err)
	}
	if err := db.LinkSummary(ctx, summarized.ID, summary.ID); err != nil {
		t.Fatalf("failed to link summary: %v", err)
	}

	missing, err := db.ListReviewsWithoutSummary(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list unsummarized reviews: %v", err)
	}
	if len(missing) != 1 || missing[0].ID != pending.ID {
		t.Fatalf("expected only the pending review, got %v", missing)
	}
}
