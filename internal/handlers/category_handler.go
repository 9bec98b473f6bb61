package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const defaultCategoryColor = "#6366f1"

// CategoryHandler manages article categories.
type CategoryHandler struct {
	categoryRepository repositories.CategoryRepository
}

func NewCategoryHandler(categoryRepo repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepository: categoryRepo}
}

func (h *CategoryHandler) RegisterCategoryRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.GET("", h.ListCategories)
	g.GET("/:slug", h.GetCategory)
	g.POST("", h.CreateCategory, requireAuth, requireAdmin)
	g.PUT("/:id", h.UpdateCategory, requireAuth, requireAdmin)
	g.DELETE("/:id", h.DeleteCategory, requireAuth, requireAdmin)
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryRepository.ListCategories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get categories").SetInternal(err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	category, err := h.categoryRepository.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return categoryError(err, "Failed to get category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req models.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category := &models.Category{ShowInFooter: true}
	if err := applyCategory(category, req); err != nil {
		return err
	}
	if err := h.categoryRepository.CreateCategory(c.Request().Context(), category); err != nil {
		return categoryError(err, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id", "category")
	if err != nil {
		return err
	}
	var req models.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	category, err := h.categoryRepository.GetCategoryByID(ctx, id)
	if err != nil {
		return categoryError(err, "Failed to get category")
	}
	if err := applyCategory(category, req); err != nil {
		return err
	}
	if err := h.categoryRepository.UpdateCategory(ctx, category); err != nil {
		return categoryError(err, "Failed to update category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id", "category")
	if err != nil {
		return err
	}
	if err := h.categoryRepository.DeleteCategory(c.Request().Context(), id); err != nil {
		return categoryError(err, "Failed to delete category")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted"})
}

func applyCategory(category *models.Category, req models.CategoryRequest) error {
	category.Name = strings.TrimSpace(req.Name)
	slug := services.Slugify(req.Slug)
	if slug == "" {
		slug = services.Slugify(category.Name)
	}
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name must contain letters or digits")
	}
	category.Slug = slug
	category.Color = req.Color
	if category.Color == "" {
		category.Color = defaultCategoryColor
	}
	category.Icon = req.Icon
	category.ShowOnHome = req.ShowOnHome
	if req.ShowInFooter != nil {
		category.ShowInFooter = *req.ShowInFooter
	}
	return nil
}

func categoryError(err error, fallback string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return echo.NewHTTPError(http.StatusConflict, "Category slug already exists")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
}
