package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/gammy/backend/internal/middleware"
	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// rankingInvalidator drops cached rankings after author details change.
type rankingInvalidator interface {
	Invalidate(ctx context.Context)
}

func currentClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(middleware.UserContextKey).(*models.JwtCustomClaims)
	return claims
}

// getUserIDFromContext returns the authenticated user's id, or 0.
func getUserIDFromContext(c echo.Context) uint {
	if claims := currentClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// currentActor resolves the caller from verified claims or the anonymous key.
func currentActor(c echo.Context) services.Actor {
	if claims := currentClaims(c); claims != nil {
		return services.UserActor(claims.UserID, claims.Name, claims.Email, claims.Role)
	}
	key, _ := c.Get(middleware.AnonKeyContextKey).(string)
	return services.Actor{AnonKey: key}
}

func parseID(c echo.Context, param, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+what+" ID")
	}
	return uint(id), nil
}

// httpError translates a service error into an HTTP error. Store failures
// get the generic fallback message; the cause stays internal for logging.
func httpError(err error, resource, fallback string) error {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, services.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
		return echo.NewHTTPError(http.StatusBadRequest, msg)
	case errors.Is(err, services.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized")
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, resource+" not found")
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, resource+" already exists")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
