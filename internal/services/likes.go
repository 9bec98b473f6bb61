package services

import (
	"context"
	"errors"

	"github.com/anonto42/gammy/backend/internal/events"
	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LikeResult is the state of a post's like for one actor after a toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// LikeLedger records at most one like per (post, actor key).
type LikeLedger struct {
	likes    repositories.LikeRepository
	posts    repositories.PostRepository
	notifier *Notifier
	events   events.Publisher
	logger   *zap.Logger
}

func NewLikeLedger(likes repositories.LikeRepository, posts repositories.PostRepository, notifier *Notifier, pub events.Publisher, logger *zap.Logger) *LikeLedger {
	return &LikeLedger{likes: likes, posts: posts, notifier: notifier, events: pub, logger: logger}
}

// Toggle removes the actor's like when present and adds it otherwise. Only
// a freshly inserted like notifies the post author. A concurrent duplicate
// insert is rejected by the unique index and reported as liked.
func (l *LikeLedger) Toggle(ctx context.Context, postID uint, actor Actor) (LikeResult, error) {
	key := actor.Key()
	if key == "" {
		return LikeResult{}, ErrUnauthorized
	}
	post, err := l.posts.GetPostByID(ctx, postID)
	if err != nil {
		return LikeResult{}, notFound(err)
	}

	existing, err := l.likes.GetLike(ctx, postID, key)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return LikeResult{}, err
	}

	var liked bool
	if existing != nil {
		if err := l.likes.DeleteLike(ctx, existing.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return LikeResult{}, err
		}
		publish(ctx, l.events, l.logger, events.New(events.PostUnliked, key, actor.UserID, map[string]uint{"post_id": postID}))
	} else {
		liked = true
		like := &models.PostLike{PostID: postID, ActorKey: key, UserID: actor.UserID}
		switch err := l.likes.CreateLike(ctx, like); {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			l.logger.Debug("duplicate like rejected by store", zap.Uint("post_id", postID), zap.String("actor", key))
		case err != nil:
			return LikeResult{}, err
		default:
			l.notifier.Notify(ctx, Notice{
				TargetUserID: post.AuthorID,
				Type:         models.NotificationLikePost,
				Source:       actor,
				PostID:       &post.ID,
				Message:      LikePostMessage(actor.DisplayName(), post.Content),
			})
			publish(ctx, l.events, l.logger, events.New(events.PostLiked, key, actor.UserID, map[string]uint{"post_id": postID}))
		}
	}

	count, err := l.likes.CountByPostID(ctx, postID)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: liked, LikesCount: count}, nil
}

// HasLiked reports whether actor currently likes postID.
func (l *LikeLedger) HasLiked(ctx context.Context, postID uint, actor Actor) (bool, error) {
	key := actor.Key()
	if key == "" {
		return false, nil
	}
	_, err := l.likes.GetLike(ctx, postID, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
