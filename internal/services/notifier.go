package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	previewLen        = 50
	notificationLimit = 50
)

// Notice describes a notification to fan out to a content owner.
type Notice struct {
	TargetUserID *uint
	Type         models.NotificationType
	Source       Actor
	SourceName   string // overrides Source.DisplayName, e.g. a guest commenter's name
	PostID       *uint
	ArticleID    *uint
	CommentID    *uint
	Message      string
}

// Notifier writes notifications as a side effect of comments and likes and
// serves the recipient-facing queries.
type Notifier struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

func NewNotifier(repo repositories.NotificationRepository, logger *zap.Logger) *Notifier {
	return &Notifier{repo: repo, logger: logger}
}

// Preview cuts content to 50 characters, adding an ellipsis when cut.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLen]) + "..."
}

func LikePostMessage(actorName, content string) string {
	return fmt.Sprintf("%s liked your post: \"%s\"", actorName, Preview(content))
}

func CommentPostMessage(actorName, content string) string {
	return fmt.Sprintf("%s commented on your post: \"%s\"", actorName, Preview(content))
}

func CommentArticleMessage(actorName, title string) string {
	return fmt.Sprintf("%s commented on the article \"%s\"", actorName, title)
}

// Notify records n unless it has no target or the source is the target.
// Failures are logged and dropped: the triggering action has already succeeded.
func (s *Notifier) Notify(ctx context.Context, n Notice) {
	if n.TargetUserID == nil {
		return
	}
	if n.Source.UserID != nil && *n.Source.UserID == *n.TargetUserID {
		return
	}
	name := n.SourceName
	if name == "" {
		name = n.Source.DisplayName()
	}
	notification := &models.Notification{
		UserID:         *n.TargetUserID,
		Type:           n.Type,
		SourceUserID:   n.Source.UserID,
		SourceUserName: name,
		PostID:         n.PostID,
		ArticleID:      n.ArticleID,
		CommentID:      n.CommentID,
		Message:        n.Message,
		IsRead:         false,
	}
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		s.logger.Warn("failed to record notification",
			zap.Uint("user_id", *n.TargetUserID),
			zap.String("type", string(n.Type)),
			zap.Error(err))
	}
}

// List returns the newest notifications of userID, at most 50.
func (s *Notifier) List(ctx context.Context, userID uint) ([]models.NotificationView, error) {
	return s.repo.ListByUserID(ctx, userID, notificationLimit)
}

func (s *Notifier) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkRead flips one notification to read. Marking twice is a no-op.
func (s *Notifier) MarkRead(ctx context.Context, userID, id uint) error {
	if err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, id)
}

func (s *Notifier) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Notifier) Delete(ctx context.Context, userID, id uint) error {
	if err := s.authorize(ctx, userID, id); err != nil {
		return err
	}
	return notFound(s.repo.DeleteNotification(ctx, id))
}

// authorize checks that notification id exists and belongs to userID.
func (s *Notifier) authorize(ctx context.Context, userID, id uint) error {
	n, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrForbidden
	}
	return nil
}
