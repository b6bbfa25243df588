package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/database"
	"reviewhub/internal/models"
	"reviewhub/internal/summarizer"
)

var (
	// ErrNotFound is returned when a review does not exist.
	ErrNotFound = errors.New("review not found")

	// ErrSummaryNotFound is returned when a summary does not exist.
	ErrSummaryNotFound = errors.New("summary not found")

	// ErrNotAuthor is returned when a user modifies a review they do not own.
	ErrNotAuthor = errors.New("only the author may modify this review")
)

// Service owns review and summary business rules over the store. Summary
// generation is best-effort: its failure never affects the review itself.
type Service struct {
	db         *database.Database
	summarizer summarizer.Summarizer
	log        *slog.Logger
}

func NewService(db *database.Database, s summarizer.Summarizer, log *slog.Logger) *Service {
	return &Service{
		db:         db,
		summarizer: s,
		log:        log,
	}
}

// CreateInput carries already-validated review fields.
type CreateInput struct {
	Title    string
	Content  string
	Category string
	Rating   *int
	Source   *string
}

// UpdateInput carries optional field changes; nil fields stay untouched.
type UpdateInput struct {
	Title    *string
	Content  *string
	Category *string
	Rating   *int
	Source   *string
}

func (s *Service) Create(ctx context.Context, in CreateInput, authorID *uuid.UUID) (*models.Review, error) {
	now := time.Now().UTC()
	review := &models.Review{
		ID:        uuid.New(),
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		Rating:    in.Rating,
		Source:    in.Source,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	return review, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.db.GetReview(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return nil, ErrNotFound
	}

	return review, nil
}

func (s *Service) List(ctx context.Context, page, perPage int, category string) (*models.ReviewPage, error) {
	items, total, err := s.db.ListReviews(ctx, page, perPage, category)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &models.ReviewPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *Service) Search(ctx context.Context, query string, page, perPage int) (*models.ReviewPage, error) {
	items, total, err := s.db.SearchReviews(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w", err)
	}

	return &models.ReviewPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, userID uuid.UUID) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if review.AuthorID == nil || *review.AuthorID != userID {
		return nil, ErrNotAuthor
	}

	if in.Title != nil {
		review.Title = *in.Title
	}
	if in.Content != nil {
		review.Content = *in.Content
	}
	if in.Category != nil {
		review.Category = *in.Category
	}
	if in.Rating != nil {
		review.Rating = in.Rating
	}
	if in.Source != nil {
		review.Source = in.Source
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.db.UpdateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	return review, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if review.AuthorID == nil || *review.AuthorID != userID {
		return ErrNotAuthor
	}

	deleted, err := s.db.DeleteReview(ctx, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	return nil
}

// Summarize returns the review's summary, generating and linking one on
// first call. Repeated calls return the stored record without touching
// the provider.
func (s *Service) Summarize(ctx context.Context, reviewID uuid.UUID) (*models.Summary, error) {
	review, err := s.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.SummaryID != nil {
		existing, err := s.db.GetSummary(ctx, *review.SummaryID)
		if err != nil {
			return nil, fmt.Errorf("get linked summary: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	result, err := s.summarizer.Summarize(ctx, summarizer.Input{
		Content: review.Content,
		Title:   review.Title,
	})
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		ID:             uuid.New(),
		Summary:        result.Summary,
		Sentiment:      result.Sentiment,
		SentimentScore: roundScore(result.SentimentScore),
		Keywords:       result.Keywords,
		Pros:           result.Pros,
		Cons:           result.Cons,
		AIModel:        &result.AIModel,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.db.CreateSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("store summary: %w", err)
	}
	if err := s.db.LinkSummary(ctx, reviewID, summary.ID); err != nil {
		return nil, fmt.Errorf("link summary: %w", err)
	}

	return summary, nil
}

func (s *Service) GetSummary(ctx context.Context, id uuid.UUID) (*models.Summary, error) {
	summary, err := s.db.GetSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	if summary == nil {
		return nil, ErrSummaryNotFound
	}

	return summary, nil
}

func (s *Service) ListSummaries(ctx context.Context, page, perPage int) ([]models.Summary, error) {
	summaries, err := s.db.ListSummaries(ctx, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}

	return summaries, nil
}

// BackfillSummaries generates summaries for reviews that have none,
// oldest first and capped at limit. It returns the number generated and
// stops early when the provider is unconfigured.
func (s *Service) BackfillSummaries(ctx context.Context, limit int) (int, error) {
	pending, err := s.db.ListReviewsWithoutSummary(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list unsummarized reviews: %w", err)
	}

	generated := 0
	for _, review := range pending {
		if ctx.Err() != nil {
			return generated, ctx.Err()
		}

		if _, err := s.Summarize(ctx, review.ID); err != nil {
			if errors.Is(err, summarizer.ErrNotConfigured) {
				return generated, err
			}

			s.log.ErrorContext(ctx, "Failed to backfill summary",
				"error", err,
				"reviewID", review.ID)
			continue
		}

		generated++
	}

	return generated, nil
}

// roundScore keeps two decimal places, matching what the API exposes.
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
