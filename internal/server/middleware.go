package server

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"reviewhub/internal/auth"
	"reviewhub/internal/models"
)

const userContextKey = "authenticated-user"

// Identity resolves bearer tokens to users. Satisfied by auth.Client.
type Identity interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// requireUser rejects requests without a valid bearer token.
func (s *Server) requireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return auth.ErrInvalidToken
			}

			user, err := s.identity.ValidateToken(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)

			return next(c)
		}
	}
}

// optionalUser resolves the bearer token when present but lets
// anonymous requests through.
func (s *Server) optionalUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token != "" {
				if user, err := s.identity.ValidateToken(c.Request().Context(), token); err == nil {
					c.Set(userContextKey, user)
				}
			}

			return next(c)
		}
	}
}

func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)

	return user
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
