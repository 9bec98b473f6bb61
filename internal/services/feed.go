package services

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/gammy/backend/internal/events"
	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	slugAttempts = 3
)

// ListParams selects one page of the feed.
type ListParams struct {
	Page   int
	Limit  int
	Tag    string
	Search string
}

// FeedPage is one page of decorated posts.
type FeedPage struct {
	Posts      []models.PostView `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

// FeedService owns feed posts: listing, lookup and author-side mutations.
type FeedService struct {
	posts     repositories.PostRepository
	likes     repositories.LikeRepository
	comments  repositories.CommentRepository
	users     repositories.UserRepository
	settings  *SettingsService
	rankings  *RankingService
	events    events.Publisher
	sanitizer Sanitizer
	logger    *zap.Logger
}

type FeedDeps struct {
	Posts     repositories.PostRepository
	Likes     repositories.LikeRepository
	Comments  repositories.CommentRepository
	Users     repositories.UserRepository
	Settings  *SettingsService
	Rankings  *RankingService
	Events    events.Publisher
	Sanitizer Sanitizer
	Logger    *zap.Logger
}

func NewFeedService(d FeedDeps) *FeedService {
	if d.Sanitizer == nil {
		d.Sanitizer = DefaultSanitizer()
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	return &FeedService{
		posts:     d.Posts,
		likes:     d.Likes,
		comments:  d.Comments,
		users:     d.Users,
		settings:  d.Settings,
		rankings:  d.Rankings,
		events:    d.Events,
		sanitizer: d.Sanitizer,
		logger:    d.Logger,
	}
}

// List returns one page of posts, newest first, filtered by tag or, when no
// tag is given, by a content substring.
func (s *FeedService) List(ctx context.Context, p ListParams, viewer Actor) (*FeedPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}

	posts, total, err := s.posts.ListPosts(ctx, repositories.PostFilter{
		Tag:    p.Tag,
		Search: p.Search,
		Offset: (p.Page - 1) * p.Limit,
		Limit:  p.Limit,
	})
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(ctx, posts, viewer)
	if err != nil {
		return nil, err
	}
	return &FeedPage{
		Posts: views,
		Pagination: models.Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
			Pages: int((total + int64(p.Limit) - 1) / int64(p.Limit)),
		},
	}, nil
}

// GetBySlug returns a post and counts the fetch as one view.
func (s *FeedService) GetBySlug(ctx context.Context, slug string, viewer Actor) (*models.PostView, error) {
	post, err := s.posts.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.posts.IncrementViews(ctx, post.ID); err != nil {
		return nil, err
	}
	post.Views++
	return s.decorateOne(ctx, post, viewer)
}

// GetByID returns a post without touching its view counter.
func (s *FeedService) GetByID(ctx context.Context, id uint, viewer Actor) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s.decorateOne(ctx, post, viewer)
}

// Create publishes a post for actor. Anonymous actors may post only when the
// feedAllowAnonymous setting is enabled.
func (s *FeedService) Create(ctx context.Context, actor Actor, req models.CreatePostRequest) (*models.PostView, error) {
	if !actor.Authenticated() {
		allowed, err := s.settings.AllowAnonymousPosts(ctx)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrUnauthorized
		}
	}
	raw := strings.TrimSpace(req.Content)
	if raw == "" {
		return nil, validationError("Content is required")
	}

	post := &models.Post{
		Content:    s.sanitizer.Sanitize(raw),
		Images:     datatypes.JSONSlice[string](cleanList(req.Images, nil)),
		Tags:       datatypes.JSONSlice[string](cleanList(req.Tags, StrictSanitizer())),
		AuthorID:   actor.UserID,
		AuthorName: actor.DisplayName(),
	}

	base := PostSlug(raw)
	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		post.Slug, err = UniqueSlug(ctx, base, s.posts.SlugExists)
		if err != nil {
			return nil, err
		}
		err = s.posts.CreatePost(ctx, post)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.rankings.Invalidate(ctx)
	publish(ctx, s.events, s.logger, events.New(events.PostCreated, actor.Key(), actor.UserID, map[string]uint{"post_id": post.ID}))
	s.logger.Info("post created", zap.Uint("post_id", post.ID), zap.String("slug", post.Slug), zap.Bool("anonymous", !actor.Authenticated()))

	return s.decorateOne(ctx, post, actor)
}

// Update replaces content, images and tags. Only the author or an admin may edit.
func (s *FeedService) Update(ctx context.Context, actor Actor, id uint, req models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(req.Content)
	if raw == "" {
		return nil, validationError("Content is required")
	}
	post.Content = s.sanitizer.Sanitize(raw)
	post.Images = datatypes.JSONSlice[string](cleanList(req.Images, nil))
	post.Tags = datatypes.JSONSlice[string](cleanList(req.Tags, StrictSanitizer()))
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	s.rankings.Invalidate(ctx)
	publish(ctx, s.events, s.logger, events.New(events.PostUpdated, actor.Key(), actor.UserID, map[string]uint{"post_id": post.ID}))
	return s.decorateOne(ctx, post, actor)
}

// Delete removes a post with its comments and likes.
func (s *FeedService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return notFound(err)
	}
	s.rankings.Invalidate(ctx)
	publish(ctx, s.events, s.logger, events.New(events.PostDeleted, actor.Key(), actor.UserID, map[string]uint{"post_id": id}))
	s.logger.Info("post deleted", zap.Uint("post_id", id), zap.String("actor", actor.Key()))
	return nil
}

func (s *FeedService) authorize(ctx context.Context, actor Actor, id uint) (*models.Post, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthorized
	}
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !actor.Owns(post.AuthorID) && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return post, nil
}

func (s *FeedService) decorateOne(ctx context.Context, post *models.Post, viewer Actor) (*models.PostView, error) {
	views, err := s.decorate(ctx, []models.Post{*post}, viewer)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// decorate attaches live like and comment counts, author avatars and, when
// the viewer can be identified, whether the viewer liked each post.
func (s *FeedService) decorate(ctx context.Context, posts []models.Post, viewer Actor) ([]models.PostView, error) {
	views := make([]models.PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint, len(posts))
	var authorIDs []uint
	for i, p := range posts {
		ids[i] = p.ID
		if p.AuthorID != nil {
			authorIDs = append(authorIDs, *p.AuthorID)
		}
	}

	likeCounts, err := s.likes.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.comments.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	key := viewer.Key()
	var liked map[uint]bool
	if key != "" {
		if liked, err = s.likes.LikedPostIDs(ctx, key, ids); err != nil {
			return nil, err
		}
	}

	for i, p := range posts {
		if p.Images == nil {
			p.Images = datatypes.JSONSlice[string]{}
		}
		if p.Tags == nil {
			p.Tags = datatypes.JSONSlice[string]{}
		}
		v := models.PostView{
			Post:          p,
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
		}
		if p.AuthorID != nil {
			v.AuthorAvatar = authors[*p.AuthorID].Avatar
		}
		if key != "" {
			userLiked := liked[p.ID]
			v.UserLiked = &userLiked
		}
		views[i] = v
	}
	return views, nil
}
