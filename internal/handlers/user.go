package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles public profiles and user administration.
type UserHandler struct {
	userRepository repositories.UserRepository
	rankings       rankingInvalidator
}

func NewUserHandler(userRepo repositories.UserRepository, rankings rankingInvalidator) *UserHandler {
	return &UserHandler{userRepository: userRepo, rankings: rankings}
}

// RegisterUserRoutes registers user routes on /api/users.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.GET("", h.ListUsers, requireAuth, requireAdmin)
	g.GET("/:id", h.GetUser)
	g.PUT("/:id/role", h.UpdateRole, requireAuth, requireAdmin)
	g.DELETE("/:id", h.DeleteUser, requireAuth, requireAdmin)
}

type publicProfile struct {
	models.UserCompact
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get users").SetInternal(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser returns the public profile of a user; the email is not exposed.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return userLookupError(err)
	}
	return c.JSON(http.StatusOK, publicProfile{
		UserCompact: user.ToCompact(),
		Bio:         user.Bio,
		CreatedAt:   user.CreatedAt,
	})
}

func (h *UserHandler) UpdateRole(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	var req models.UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return userLookupError(err)
	}
	user.Role = req.Role
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update role").SetInternal(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id", "user")
	if err != nil {
		return err
	}
	if id == getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot delete your own account")
	}
	if err := h.userRepository.DeleteUser(c.Request().Context(), id); err != nil {
		return userLookupError(err)
	}
	h.rankings.Invalidate(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted"})
}
