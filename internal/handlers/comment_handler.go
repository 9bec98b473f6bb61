package handlers

import (
	"net/http"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler serves comments on posts and articles. On GET and POST the
// :id parameter is the parent id; on DELETE it is the comment id.
type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireAuth, requireAdmin echo.MiddlewareFunc) {
	g.GET("/all", h.LatestComments, requireAuth, requireAdmin)

	g.GET("/post/:id", h.ListPostComments)
	g.POST("/post/:id", h.CreatePostComment)
	g.DELETE("/post/:id", h.DeletePostComment, requireAuth)

	g.GET("/article/:id", h.ListArticleComments)
	g.POST("/article/:id", h.CreateArticleComment)
	g.DELETE("/article/:id", h.DeleteArticleComment, requireAuth)
}

func (h *CommentHandler) ListPostComments(c echo.Context) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	comments, err := h.comments.ListPostComments(c.Request().Context(), postID)
	if err != nil {
		return httpError(err, "Post", "Failed to get comments")
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreatePostComment(c echo.Context) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.CreatePostComment(c.Request().Context(), currentActor(c), postID, req)
	if err != nil {
		return httpError(err, "Post", "Failed to create comment")
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) DeletePostComment(c echo.Context) error {
	id, err := parseID(c, "id", "comment")
	if err != nil {
		return err
	}
	if err := h.comments.DeletePostComment(c.Request().Context(), currentActor(c), id); err != nil {
		return httpError(err, "Comment", "Failed to delete comment")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}

func (h *CommentHandler) ListArticleComments(c echo.Context) error {
	articleID, err := parseID(c, "id", "article")
	if err != nil {
		return err
	}
	comments, err := h.comments.ListArticleComments(c.Request().Context(), articleID)
	if err != nil {
		return httpError(err, "Article", "Failed to get comments")
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreateArticleComment(c echo.Context) error {
	articleID, err := parseID(c, "id", "article")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.CreateArticleComment(c.Request().Context(), currentActor(c), articleID, req)
	if err != nil {
		return httpError(err, "Article", "Failed to create comment")
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) DeleteArticleComment(c echo.Context) error {
	id, err := parseID(c, "id", "comment")
	if err != nil {
		return err
	}
	if err := h.comments.DeleteArticleComment(c.Request().Context(), currentActor(c), id); err != nil {
		return httpError(err, "Comment", "Failed to delete comment")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}

// LatestComments is the moderation view across posts and articles.
func (h *CommentHandler) LatestComments(c echo.Context) error {
	comments, err := h.comments.Latest(c.Request().Context())
	if err != nil {
		return httpError(err, "Comment", "Failed to get comments")
	}
	return c.JSON(http.StatusOK, comments)
}
