package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
)

const feedItemLimit = 20

// handleFeed serves the newest reviews as RSS.
func (s *Server) handleFeed(c echo.Context) error {
	page, err := s.reviews.List(c.Request().Context(), 1, feedItemLimit, "")
	if err != nil {
		return err
	}

	baseURL := requestBaseURL(c)

	feed := &feeds.Feed{
		Title:       "ReviewHub",
		Link:        &feeds.Link{Href: baseURL},
		Description: "Latest reviews",
		Created:     time.Now().UTC(),
	}

	for _, item := range page.Items {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          item.ID.String(),
			Title:       item.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/reviews?highlight=%s", baseURL, item.ID)},
			Description: item.Content,
			Created:     item.CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return fmt.Errorf("render rss: %w", err)
	}

	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func requestBaseURL(c echo.Context) string {
	scheme := c.Scheme()
	if scheme == "" {
		scheme = "http"
	}

	return scheme + "://" + c.Request().Host
}
