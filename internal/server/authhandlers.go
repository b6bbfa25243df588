package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleSignUp(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return invalid("request body must be valid JSON")
	}
	if err := req.validate(); err != nil {
		return err
	}

	session, err := s.auth.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, session)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return invalid("request body must be valid JSON")
	}
	if err := req.validate(); err != nil {
		return err
	}

	session, err := s.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleLogout(c echo.Context) error {
	if err := s.auth.SignOut(c.Request().Context(), bearerToken(c)); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, currentUser(c))
}
