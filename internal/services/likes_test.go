package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/anonto42/gammy/backend/internal/repositories"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func TestToggleLikeScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")

	post := env.createPost(t, alice, "Hello world")
	if post.Slug != "hello-world" {
		t.Fatalf("slug = %q", post.Slug)
	}

	res, err := env.likes.Toggle(ctx, post.ID, bob)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !res.Liked || res.LikesCount != 1 {
		t.Fatalf("like result = %+v", res)
	}

	list := env.notificationsFor(t, alice)
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
	n := list[0]
	if n.Type != models.NotificationLikePost || n.IsRead || !strings.Contains(n.Message, "Hello world") {
		t.Fatalf("unexpected notification %+v", n.Notification)
	}
	if n.SourceUserID == nil || *n.SourceUserID != *bob.UserID || n.PostID == nil || *n.PostID != post.ID {
		t.Fatalf("notification refs = %+v", n.Notification)
	}

	if err := env.notifier.MarkAllRead(ctx, *alice.UserID); err != nil {
		t.Fatal(err)
	}

	res, err = env.likes.Toggle(ctx, post.ID, bob)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if res.Liked || res.LikesCount != 0 {
		t.Fatalf("unlike result = %+v", res)
	}
	if got := len(env.notificationsFor(t, alice)); got != 1 {
		t.Fatalf("unlike created a notification: %d total", got)
	}
	if count, _ := env.notifier.UnreadCount(ctx, *alice.UserID); count != 0 {
		t.Fatalf("unread = %d, want 0", count)
	}
}

func TestToggleLikeIdempotence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	post := env.createPost(t, alice, "Toggle me")
	guest := Actor{AnonKey: "ip:192.0.2.7"}

	var last LikeResult
	for i := 0; i < 5; i++ {
		var err error
		if last, err = env.likes.Toggle(ctx, post.ID, guest); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}
	if !last.Liked || last.LikesCount != 1 {
		t.Fatalf("after odd toggles = %+v, want liked with count 1", last)
	}
	liked, err := env.likes.HasLiked(ctx, post.ID, guest)
	if err != nil || !liked {
		t.Fatalf("HasLiked = %v, %v", liked, err)
	}
	other, _ := env.likes.HasLiked(ctx, post.ID, Actor{AnonKey: "ip:192.0.2.8"})
	if other {
		t.Fatal("a different key must not share the like")
	}
}

func TestToggleLikeSelfDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "user")
	post := env.createPost(t, alice, "Mine")

	if _, err := env.likes.Toggle(context.Background(), post.ID, alice); err != nil {
		t.Fatal(err)
	}
	if n := len(env.notificationsFor(t, alice)); n != 0 {
		t.Fatalf("self like produced %d notifications", n)
	}
}

func TestToggleLikeErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	post := env.createPost(t, alice, "Something")

	if _, err := env.likes.Toggle(ctx, post.ID, Actor{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unidentified actor: err = %v", err)
	}
	if _, err := env.likes.Toggle(ctx, 4242, alice); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing post: err = %v", err)
	}
}

// racingLikes inserts the like from a concurrent request between the
// ledger's lookup and its insert.
type racingLikes struct {
	repositories.LikeRepository
	raced bool
}

func (r *racingLikes) GetLike(ctx context.Context, postID uint, actorKey string) (*models.PostLike, error) {
	if !r.raced {
		r.raced = true
		if err := r.LikeRepository.CreateLike(ctx, &models.PostLike{PostID: postID, ActorKey: actorKey}); err != nil {
			return nil, err
		}
		return nil, gorm.ErrRecordNotFound
	}
	return r.LikeRepository.GetLike(ctx, postID, actorKey)
}

func TestToggleLikeDuplicateInsertSettlesLiked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")
	post := env.createPost(t, alice, "Race me")

	repo := &racingLikes{LikeRepository: repositories.NewPostgresLikeRepository(env.db)}
	ledger := NewLikeLedger(repo, env.posts, env.notifier, nil, zaptest.NewLogger(t))

	res, err := ledger.Toggle(ctx, post.ID, bob)
	if err != nil {
		t.Fatalf("toggle with duplicate insert: %v", err)
	}
	if !repo.raced {
		t.Fatal("concurrent insert did not happen")
	}
	if !res.Liked || res.LikesCount != 1 {
		t.Fatalf("result = %+v, want liked with count 1", res)
	}
	if n := len(env.notificationsFor(t, alice)); n != 0 {
		t.Fatalf("rejected duplicate produced %d notifications", n)
	}
}

func TestDeletedOwnerReceivesNoNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")
	post := env.createPost(t, alice, "Hello world")

	if _, err := env.likes.Toggle(ctx, post.ID, bob); err != nil {
		t.Fatal(err)
	}
	if _, err := env.likes.Toggle(ctx, post.ID, bob); err != nil {
		t.Fatal(err)
	}
	if n := len(env.notificationsFor(t, alice)); n != 1 {
		t.Fatalf("before delete: %d notifications, want 1", n)
	}

	if err := env.users.DeleteUser(ctx, *alice.UserID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	stored, err := env.posts.GetPostByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("post must survive its author: %v", err)
	}
	if stored.AuthorID != nil {
		t.Fatalf("author_id = %d, want detached", *stored.AuthorID)
	}

	res, err := env.likes.Toggle(ctx, post.ID, bob)
	if err != nil || !res.Liked {
		t.Fatalf("like after owner delete = %+v, %v", res, err)
	}
	guest := Actor{AnonKey: "ip:192.0.2.9"}
	if _, err := env.comments.CreatePostComment(ctx, guest, post.ID, models.CreateCommentRequest{AuthorName: "Zed", Content: "still here?"}); err != nil {
		t.Fatalf("comment after owner delete: %v", err)
	}

	var count int64
	if err := env.db.Model(&models.Notification{}).Where("user_id = ?", *alice.UserID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("deleted user has %d notification rows", count)
	}
}
