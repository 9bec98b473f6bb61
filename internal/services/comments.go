package services

import (
	"context"
	"sort"
	"strings"

	"github.com/anonto42/gammy/backend/internal/events"
	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"go.uber.org/zap"
)

const latestCommentsLimit = 50

// CommentService handles comments on posts and articles. Members comment
// under their account name, guests must supply one.
type CommentService struct {
	comments  repositories.CommentRepository
	posts     repositories.PostRepository
	articles  repositories.ArticleRepository
	notifier  *Notifier
	events    events.Publisher
	sanitizer Sanitizer
	logger    *zap.Logger
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, articles repositories.ArticleRepository, notifier *Notifier, pub events.Publisher, logger *zap.Logger) *CommentService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &CommentService{
		comments:  comments,
		posts:     posts,
		articles:  articles,
		notifier:  notifier,
		events:    pub,
		sanitizer: DefaultSanitizer(),
		logger:    logger,
	}
}

type commentAuthor struct {
	name    string
	email   string
	content string
}

// resolveAuthor validates the request and picks name and email from the
// account when the actor is signed in.
func (s *CommentService) resolveAuthor(actor Actor, req models.CreateCommentRequest) (commentAuthor, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return commentAuthor{}, validationError("Content is required")
	}
	a := commentAuthor{
		name:    strings.TrimSpace(StrictSanitizer().Sanitize(req.AuthorName)),
		email:   strings.TrimSpace(req.AuthorEmail),
		content: s.sanitizer.Sanitize(content),
	}
	if actor.Authenticated() {
		if actor.Name != "" {
			a.name = actor.Name
		}
		if actor.Email != "" {
			a.email = actor.Email
		}
	}
	if a.name == "" {
		return commentAuthor{}, validationError("Name is required")
	}
	return a, nil
}

func (s *CommentService) ListPostComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	comments, err := s.comments.ListPostComments(ctx, postID)
	if comments == nil && err == nil {
		comments = []models.CommentView{}
	}
	return comments, err
}

// CreatePostComment stores a comment and notifies the post author.
func (s *CommentService) CreatePostComment(ctx context.Context, actor Actor, postID uint, req models.CreateCommentRequest) (*models.PostComment, error) {
	author, err := s.resolveAuthor(actor, req)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound(err)
	}

	comment := &models.PostComment{
		PostID:      postID,
		UserID:      actor.UserID,
		AuthorName:  author.name,
		AuthorEmail: author.email,
		Content:     author.content,
	}
	if err := s.comments.CreatePostComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Notice{
		TargetUserID: post.AuthorID,
		Type:         models.NotificationCommentPost,
		Source:       actor,
		SourceName:   author.name,
		PostID:       &post.ID,
		CommentID:    &comment.ID,
		Message:      CommentPostMessage(author.name, post.Content),
	})
	publish(ctx, s.events, s.logger, events.New(events.CommentCreated, actor.Key(), actor.UserID,
		map[string]uint{"post_id": postID, "comment_id": comment.ID}))
	return comment, nil
}

func (s *CommentService) DeletePostComment(ctx context.Context, actor Actor, id uint) error {
	comment, err := s.comments.GetPostComment(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if !actor.Owns(comment.UserID) && !actor.IsAdmin() {
		return ErrForbidden
	}
	return notFound(s.comments.DeletePostComment(ctx, id))
}

func (s *CommentService) ListArticleComments(ctx context.Context, articleID uint) ([]models.CommentView, error) {
	comments, err := s.comments.ListArticleComments(ctx, articleID)
	if comments == nil && err == nil {
		comments = []models.CommentView{}
	}
	return comments, err
}

// CreateArticleComment stores a comment and notifies the article author.
func (s *CommentService) CreateArticleComment(ctx context.Context, actor Actor, articleID uint, req models.CreateCommentRequest) (*models.ArticleComment, error) {
	author, err := s.resolveAuthor(actor, req)
	if err != nil {
		return nil, err
	}
	article, err := s.articles.GetArticleByID(ctx, articleID)
	if err != nil {
		return nil, notFound(err)
	}

	comment := &models.ArticleComment{
		ArticleID:   articleID,
		UserID:      actor.UserID,
		AuthorName:  author.name,
		AuthorEmail: author.email,
		Content:     author.content,
	}
	if err := s.comments.CreateArticleComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, Notice{
		TargetUserID: article.AuthorID,
		Type:         models.NotificationCommentArticle,
		Source:       actor,
		SourceName:   author.name,
		ArticleID:    &article.ID,
		CommentID:    &comment.ID,
		Message:      CommentArticleMessage(author.name, article.Title),
	})
	publish(ctx, s.events, s.logger, events.New(events.CommentCreated, actor.Key(), actor.UserID,
		map[string]uint{"article_id": articleID, "comment_id": comment.ID}))
	return comment, nil
}

func (s *CommentService) DeleteArticleComment(ctx context.Context, actor Actor, id uint) error {
	comment, err := s.comments.GetArticleComment(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if !actor.Owns(comment.UserID) && !actor.IsAdmin() {
		return ErrForbidden
	}
	return notFound(s.comments.DeleteArticleComment(ctx, id))
}

// Latest merges the newest post and article comments for moderation.
func (s *CommentService) Latest(ctx context.Context) ([]models.AdminComment, error) {
	postComments, err := s.comments.LatestPostComments(ctx, latestCommentsLimit)
	if err != nil {
		return nil, err
	}
	articleComments, err := s.comments.LatestArticleComments(ctx, latestCommentsLimit)
	if err != nil {
		return nil, err
	}
	all := append(postComments, articleComments...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > latestCommentsLimit {
		all = all[:latestCommentsLimit]
	}
	if all == nil {
		all = []models.AdminComment{}
	}
	return all, nil
}
