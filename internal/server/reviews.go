package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"reviewhub/internal/review"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

func (s *Server) handleListReviews(c echo.Context) error {
	page, perPage := pagination(c)
	category := c.QueryParam("category")

	result, err := s.reviews.List(c.Request().Context(), page, perPage, category)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleSearchReviews(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return invalid("q is required")
	}

	page, perPage := pagination(c)

	result, err := s.reviews.Search(c.Request().Context(), query, page, perPage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return invalid("request body must be valid JSON")
	}
	if err := req.validate(); err != nil {
		return err
	}

	authorID := currentUser(c).ID

	created, err := s.reviews.Create(c.Request().Context(), review.CreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Rating:   req.Rating,
		Source:   req.Source,
	}, &authorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetReview(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	found, err := s.reviews.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, found)
}

func (s *Server) handleUpdateReview(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return invalid("request body must be valid JSON")
	}
	if err := req.validate(); err != nil {
		return err
	}

	updated, err := s.reviews.Update(c.Request().Context(), id, req.toInput(), currentUser(c).ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteReview(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(c.Request().Context(), id, currentUser(c).ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSummarizeReview(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if allowed, _ := s.limiter.Allow(currentUser(c).ID); !allowed {
		return errRateLimited
	}

	summary, err := s.reviews.Summarize(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, invalid("id must be a valid UUID")
	}

	return id, nil
}

func pagination(c echo.Context) (page, perPage int) {
	page = 1
	if raw := c.QueryParam("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	perPage = defaultPerPage
	if raw := c.QueryParam("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxPerPage {
			perPage = parsed
		}
	}

	return page, perPage
}
