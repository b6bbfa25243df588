package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleListSummaries(c echo.Context) error {
	page, perPage := pagination(c)

	summaries, err := s.reviews.ListSummaries(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleGetSummary(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	summary, err := s.reviews.GetSummary(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (s *Server) handleAnalyticsOverview(c echo.Context) error {
	overview, err := s.analytics.Overview(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, overview)
}
