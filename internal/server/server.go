// Package server exposes the HTTP surface: the JSON API under /api/v1,
// the HTML pages, and the public RSS feed.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"reviewhub/internal/analytics"
	"reviewhub/internal/auth"
	"reviewhub/internal/ratelimiter"
	"reviewhub/internal/review"
	"reviewhub/internal/summarizer"
)

type Server struct {
	echo      *echo.Echo
	addr      string
	reviews   *review.Service
	analytics *analytics.Service
	identity  Identity
	auth      *auth.Client
	limiter   *ratelimiter.RateLimiter
	log       *slog.Logger
}

func New(
	addr string,
	reviews *review.Service,
	analyticsService *analytics.Service,
	authClient *auth.Client,
	limiter *ratelimiter.RateLimiter,
	log *slog.Logger,
) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		addr:      addr,
		reviews:   reviews,
		analytics: analyticsService,
		identity:  authClient,
		auth:      authClient,
		limiter:   limiter,
		log:       log,
	}

	renderer, err := newPageRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())

	s.routes()

	return s, nil
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/healthz", s.handleHealth)
	e.GET("/feed.xml", s.handleFeed)

	e.GET("/", s.handleHomePage, s.optionalUser())
	e.GET("/reviews", s.handleReviewsPage, s.optionalUser())
	e.GET("/reviews/new", s.handleNewReviewPage, s.optionalUser())
	e.GET("/summaries/:id", s.handleSummaryPage, s.optionalUser())
	e.GET("/analytics", s.handleAnalyticsPage, s.optionalUser())

	api := e.Group("/api/v1")

	api.GET("/reviews", s.handleListReviews)
	api.GET("/reviews/search", s.handleSearchReviews)
	api.POST("/reviews", s.handleCreateReview, s.requireUser())
	api.GET("/reviews/:id", s.handleGetReview)
	api.PATCH("/reviews/:id", s.handleUpdateReview, s.requireUser())
	api.DELETE("/reviews/:id", s.handleDeleteReview, s.requireUser())
	api.POST("/reviews/:id/summarize", s.handleSummarizeReview, s.requireUser())

	api.GET("/summaries", s.handleListSummaries)
	api.GET("/summaries/:id", s.handleGetSummary)

	api.GET("/analytics/overview", s.handleAnalyticsOverview)

	api.POST("/auth/signup", s.handleSignUp)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/logout", s.handleLogout, s.requireUser())
	api.GET("/auth/me", s.handleMe, s.requireUser())
}

func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", "addr", s.addr)

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			s.log.InfoContext(c.Request().Context(), "Handled request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status)

			return err
		}
	}
}

// handleError maps domain errors onto HTTP statuses and renders them as
// a single-key JSON body.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var httpErr *echo.HTTPError
	var validationErr *validationError

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	case errors.As(err, &validationErr):
		status = http.StatusUnprocessableEntity
		message = validationErr.Error()
	case errors.Is(err, review.ErrNotFound), errors.Is(err, review.ErrSummaryNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, review.ErrNotAuthor):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrNotConfigured):
		status = http.StatusServiceUnavailable
		message = err.Error()
	case errors.Is(err, summarizer.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = err.Error()
	case errors.Is(err, errRateLimited):
		status = http.StatusTooManyRequests
		message = err.Error()
	default:
		s.log.ErrorContext(c.Request().Context(), "Request failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path)
	}

	if writeErr := c.JSON(status, map[string]string{"error": message}); writeErr != nil {
		s.log.ErrorContext(c.Request().Context(), "Failed to write error response",
			"error", writeErr)
	}
}
