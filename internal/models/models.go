package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryProduct    = "product"
	CategoryBook       = "book"
	CategoryRestaurant = "restaurant"
	CategoryMovie      = "movie"
	CategoryOther      = "other"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentMixed    = "mixed"
)

const (
	MinRating = 1
	MaxRating = 5

	MaxTitleLength  = 200
	MaxSourceLength = 500
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryProduct, CategoryBook, CategoryRestaurant, CategoryMovie, CategoryOther:
		return true
	default:
		return false
	}
}

func ValidSentiment(sentiment string) bool {
	switch sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return true
	default:
		return false
	}
}

type Review struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	Rating    *int       `json:"rating"`
	Source    *string    `json:"source"`
	AuthorID  *uuid.UUID `json:"author_id"`
	SummaryID *uuid.UUID `json:"summary_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Summary is an AI-generated sentiment record for a single review.
// SentimentScore is always within [-1, 1] and Sentiment is always one of
// the four sentiment constants.
type Summary struct {
	ID             uuid.UUID `json:"id"`
	Summary        string    `json:"summary"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	Keywords       []string  `json:"keywords"`
	Pros           []string  `json:"pros"`
	Cons           []string  `json:"cons"`
	AIModel        *string   `json:"ai_model"`
	CreatedAt      time.Time `json:"created_at"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewPage struct {
	Items   []Review `json:"items"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

type SentimentStats struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Mixed    int `json:"mixed"`
	Total    int `json:"total"`
}

type CategoryStats struct {
	Category  string   `json:"category"`
	Count     int      `json:"count"`
	AvgRating *float64 `json:"avg_rating"`
}

type AnalyticsOverview struct {
	SentimentStats SentimentStats  `json:"sentiment_stats"`
	CategoryStats  []CategoryStats `json:"category_stats"`
	TotalReviews   int             `json:"total_reviews"`
	AvgRating      *float64        `json:"avg_rating"`
}
