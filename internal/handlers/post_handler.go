package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler serves the feed: listing, single posts, authoring, likes and rankings.
type PostHandler struct {
	feed     *services.FeedService
	likes    *services.LikeLedger
	rankings *services.RankingService
	stats    *services.StatsService
}

func NewPostHandler(feed *services.FeedService, likes *services.LikeLedger, rankings *services.RankingService, stats *services.StatsService) *PostHandler {
	return &PostHandler{feed: feed, likes: likes, rankings: rankings, stats: stats}
}

// RegisterPostRoutes registers feed routes on a group mounted at /api/posts.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.GET("", h.ListPosts)
	g.POST("", h.CreatePost)
	g.GET("/stats/tags", h.TopTags)
	g.GET("/stats/authors", h.TopAuthors)
	g.GET("/stats/overview", h.Overview, requireAuth, requireAdmin)
	g.GET("/slug/:slug", h.GetPostBySlug)
	g.GET("/:id", h.GetPost)
	g.PUT("/:id", h.UpdatePost, requireAuth)
	g.DELETE("/:id", h.DeletePost, requireAuth)
	g.POST("/:id/like", h.ToggleLike)
	g.GET("/:id/like", h.LikeStatus)
}

// ListPosts handles GET /api/posts?page&limit&tag&search
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.feed.List(c.Request().Context(), services.ListParams{
		Page:   page,
		Limit:  limit,
		Tag:    c.QueryParam("tag"),
		Search: c.QueryParam("search"),
	}, currentActor(c))
	if err != nil {
		return httpError(err, "Post", "Failed to get posts")
	}
	return c.JSON(http.StatusOK, result)
}

// GetPostBySlug returns a post and increments its view counter.
func (h *PostHandler) GetPostBySlug(c echo.Context) error {
	post, err := h.feed.GetBySlug(c.Request().Context(), c.Param("slug"), currentActor(c))
	if err != nil {
		return httpError(err, "Post", "Failed to get post")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	post, err := h.feed.GetByID(c.Request().Context(), id, currentActor(c))
	if err != nil {
		return httpError(err, "Post", "Failed to get post")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.feed.Create(c.Request().Context(), currentActor(c), req)
	if err != nil {
		return httpError(err, "Post", "Failed to create post")
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.feed.Update(c.Request().Context(), currentActor(c), id, req)
	if err != nil {
		return httpError(err, "Post", "Failed to update post")
	}
	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	if err := h.feed.Delete(c.Request().Context(), currentActor(c), id); err != nil {
		return httpError(err, "Post", "Failed to delete post")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted"})
}

// ToggleLike likes the post for the caller, or removes the like if present.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	result, err := h.likes.Toggle(c.Request().Context(), id, currentActor(c))
	if err != nil {
		return httpError(err, "Post", "Failed to like post")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PostHandler) LikeStatus(c echo.Context) error {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	liked, err := h.likes.HasLiked(c.Request().Context(), id, currentActor(c))
	if err != nil {
		return httpError(err, "Post", "Failed to get like status")
	}
	return c.JSON(http.StatusOK, echo.Map{"post_id": id, "liked": liked})
}

func (h *PostHandler) TopTags(c echo.Context) error {
	tags, err := h.rankings.TopTags(c.Request().Context())
	if err != nil {
		return httpError(err, "Tag", "Failed to get tags")
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *PostHandler) TopAuthors(c echo.Context) error {
	authors, err := h.rankings.TopAuthors(c.Request().Context())
	if err != nil {
		return httpError(err, "Author", "Failed to get authors")
	}
	return c.JSON(http.StatusOK, authors)
}

func (h *PostHandler) Overview(c echo.Context) error {
	overview, err := h.stats.FeedOverview(c.Request().Context())
	if err != nil {
		return httpError(err, "Stats", "Failed to get stats")
	}
	return c.JSON(http.StatusOK, overview)
}
