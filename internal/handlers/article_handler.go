package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type ArticleHandler struct {
	articles *services.ArticleService
}

func NewArticleHandler(articles *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

func (h *ArticleHandler) RegisterArticleRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.GET("", h.ListArticles)
	g.GET("/admin", h.ListAllArticles, requireAuth, requireAdmin)
	g.GET("/stats/overview", h.Overview, requireAuth, requireAdmin)
	g.GET("/slug/:slug", h.GetArticleBySlug)
	g.GET("/:id", h.GetArticle)
	g.POST("", h.CreateArticle, requireAuth, requireAdmin)
	g.PUT("/:id", h.UpdateArticle, requireAuth, requireAdmin)
	g.DELETE("/:id", h.DeleteArticle, requireAuth, requireAdmin)
}

// ListArticles handles GET /api/articles?category&status&limit&offset
func (h *ArticleHandler) ListArticles(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	articles, err := h.articles.List(c.Request().Context(), repositories.ArticleFilter{
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return httpError(err, "Article", "Failed to get articles")
	}
	return c.JSON(http.StatusOK, articles)
}

func (h *ArticleHandler) ListAllArticles(c echo.Context) error {
	articles, err := h.articles.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err, "Article", "Failed to get articles")
	}
	return c.JSON(http.StatusOK, articles)
}

func (h *ArticleHandler) GetArticleBySlug(c echo.Context) error {
	article, err := h.articles.GetBySlug(c.Request().Context(), c.Param("slug"), currentActor(c))
	if err != nil {
		return httpError(err, "Article", "Failed to get article")
	}
	return c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) GetArticle(c echo.Context) error {
	id, err := parseID(c, "id", "article")
	if err != nil {
		return err
	}
	article, err := h.articles.GetByID(c.Request().Context(), id, currentActor(c))
	if err != nil {
		return httpError(err, "Article", "Failed to get article")
	}
	return c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	var req models.ArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	article, err := h.articles.Create(c.Request().Context(), currentActor(c), req)
	if err != nil {
		return httpError(err, "Article", "Failed to create article")
	}
	return c.JSON(http.StatusCreated, article)
}

func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	id, err := parseID(c, "id", "article")
	if err != nil {
		return err
	}
	var req models.ArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	article, err := h.articles.Update(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err, "Article", "Failed to update article")
	}
	return c.JSON(http.StatusOK, article)
}

func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	id, err := parseID(c, "id", "article")
	if err != nil {
		return err
	}
	if err := h.articles.Delete(c.Request().Context(), id); err != nil {
		return httpError(err, "Article", "Failed to delete article")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Article deleted"})
}

func (h *ArticleHandler) Overview(c echo.Context) error {
	overview, err := h.articles.Overview(c.Request().Context())
	if err != nil {
		return httpError(err, "Stats", "Failed to get stats")
	}
	return c.JSON(http.StatusOK, overview)
}
