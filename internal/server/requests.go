package server

import (
	"errors"
	"fmt"
	"strings"

	"reviewhub/internal/models"
	"reviewhub/internal/review"
)

// errRateLimited marks requests denied by the per-user summary limiter.
var errRateLimited = errors.New("too many summary requests, try again later")

// validationError carries a request-shape problem to the error handler.
type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

func invalid(format string, args ...any) error {
	return &validationError{message: fmt.Sprintf(format, args...)}
}

type createReviewRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	Rating   *int    `json:"rating"`
	Source   *string `json:"source"`
}

func (r *createReviewRequest) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)

	if r.Title == "" {
		return invalid("title is required")
	}
	if len(r.Title) > models.MaxTitleLength {
		return invalid("title must be at most %d characters", models.MaxTitleLength)
	}
	if r.Content == "" {
		return invalid("content is required")
	}
	if !models.ValidCategory(r.Category) {
		return invalid("category must be one of product, book, restaurant, movie, other")
	}
	if r.Rating != nil && (*r.Rating < models.MinRating || *r.Rating > models.MaxRating) {
		return invalid("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if r.Source != nil && len(*r.Source) > models.MaxSourceLength {
		return invalid("source must be at most %d characters", models.MaxSourceLength)
	}

	return nil
}

type updateReviewRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Rating   *int    `json:"rating"`
	Source   *string `json:"source"`
}

func (r *updateReviewRequest) validate() error {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		if trimmed == "" {
			return invalid("title must not be empty")
		}
		if len(trimmed) > models.MaxTitleLength {
			return invalid("title must be at most %d characters", models.MaxTitleLength)
		}
		r.Title = &trimmed
	}
	if r.Content != nil {
		trimmed := strings.TrimSpace(*r.Content)
		if trimmed == "" {
			return invalid("content must not be empty")
		}
		r.Content = &trimmed
	}
	if r.Category != nil && !models.ValidCategory(*r.Category) {
		return invalid("category must be one of product, book, restaurant, movie, other")
	}
	if r.Rating != nil && (*r.Rating < models.MinRating || *r.Rating > models.MaxRating) {
		return invalid("rating must be between %d and %d", models.MinRating, models.MaxRating)
	}
	if r.Source != nil && len(*r.Source) > models.MaxSourceLength {
		return invalid("source must be at most %d characters", models.MaxSourceLength)
	}

	return nil
}

func (r *updateReviewRequest) toInput() review.UpdateInput {
	return review.UpdateInput{
		Title:    r.Title,
		Content:  r.Content,
		Category: r.Category,
		Rating:   r.Rating,
		Source:   r.Source,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *credentialsRequest) validate() error {
	r.Email = strings.TrimSpace(r.Email)

	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return invalid("a valid email is required")
	}
	if len(r.Password) < 6 {
		return invalid("password must be at least 6 characters")
	}

	return nil
}
