package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"reviewhub/internal/database"
	"reviewhub/internal/models"
)

// Service aggregates review and summary data into dashboard numbers.
type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{db: db}
}

func (s *Service) Overview(ctx context.Context) (*models.AnalyticsOverview, error) {
	sentiments, err := s.db.ListSentiments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sentiments: %w", err)
	}

	ratings, err := s.db.ListCategoryRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list category ratings: %w", err)
	}

	overview := &models.AnalyticsOverview{
		SentimentStats: sentimentStats(sentiments),
		CategoryStats:  categoryStats(ratings),
		TotalReviews:   len(ratings),
		AvgRating:      averageRating(ratings),
	}

	return overview, nil
}

func sentimentStats(sentiments []string) models.SentimentStats {
	stats := models.SentimentStats{Total: len(sentiments)}
	for _, sentiment := range sentiments {
		switch sentiment {
		case models.SentimentPositive:
			stats.Positive++
		case models.SentimentNegative:
			stats.Negative++
		case models.SentimentMixed:
			stats.Mixed++
		default:
			stats.Neutral++
		}
	}

	return stats
}

func categoryStats(ratings []database.CategoryRating) []models.CategoryStats {
	type bucket struct {
		count     int
		ratingSum int
		rated     int
	}

	buckets := make(map[string]*bucket)
	for _, r := range ratings {
		b := buckets[r.Category]
		if b == nil {
			b = &bucket{}
			buckets[r.Category] = b
		}

		b.count++
		if r.Rating != nil {
			b.ratingSum += *r.Rating
			b.rated++
		}
	}

	stats := make([]models.CategoryStats, 0, len(buckets))
	for category, b := range buckets {
		entry := models.CategoryStats{
			Category: category,
			Count:    b.count,
		}
		if b.rated > 0 {
			avg := round2(float64(b.ratingSum) / float64(b.rated))
			entry.AvgRating = &avg
		}

		stats = append(stats, entry)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Category < stats[j].Category
	})

	return stats
}

func averageRating(ratings []database.CategoryRating) *float64 {
	sum, rated := 0, 0
	for _, r := range ratings {
		if r.Rating != nil {
			sum += *r.Rating
			rated++
		}
	}
	if rated == 0 {
		return nil
	}

	avg := round2(float64(sum) / float64(rated))

	return &avg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
