package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anonto42/gammy/backend/internal/models"
)

func TestPreview(t *testing.T) {
	if got := Preview("short"); got != "short" {
		t.Errorf("Preview(short) = %q", got)
	}
	long := strings.Repeat("ж", 60)
	got := Preview(long)
	if got != strings.Repeat("ж", 50)+"..." {
		t.Errorf("Preview(long) = %q", got)
	}
	exact := strings.Repeat("x", 50)
	if Preview(exact) != exact {
		t.Error("50 characters must not be cut")
	}
}

func TestMessages(t *testing.T) {
	if got := LikePostMessage("Bob", "Hello world"); got != `Bob liked your post: "Hello world"` {
		t.Errorf("like message = %q", got)
	}
	if got := CommentPostMessage("Bob", "Hello world"); got != `Bob commented on your post: "Hello world"` {
		t.Errorf("comment message = %q", got)
	}
	if got := CommentArticleMessage("Bob", "Go tips"); got != `Bob commented on the article "Go tips"` {
		t.Errorf("article message = %q", got)
	}
}

func TestNotifySkipsSelfAndOrphans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")

	env.notifier.Notify(ctx, Notice{TargetUserID: alice.UserID, Type: models.NotificationLikePost, Source: alice, Message: "self"})
	env.notifier.Notify(ctx, Notice{TargetUserID: nil, Type: models.NotificationLikePost, Source: alice, Message: "orphan"})

	if n := len(env.notificationsFor(t, alice)); n != 0 {
		t.Fatalf("got %d notifications, want 0", n)
	}
}

func TestNotifyGuestSource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")

	env.notifier.Notify(ctx, Notice{
		TargetUserID: alice.UserID,
		Type:         models.NotificationCommentPost,
		Source:       Actor{AnonKey: "ip:10.0.0.1"},
		SourceName:   "Visitor",
		Message:      "hi",
	})
	list := env.notificationsFor(t, alice)
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
	if list[0].SourceUserID != nil || list[0].SourceUserName != "Visitor" || list[0].IsRead {
		t.Fatalf("unexpected notification %+v", list[0].Notification)
	}
}

func TestNotificationQueries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")

	for i := 0; i < 55; i++ {
		env.notifier.Notify(ctx, Notice{TargetUserID: alice.UserID, Type: models.NotificationLikePost, Source: bob, Message: "m"})
	}
	list := env.notificationsFor(t, alice)
	if len(list) != 50 {
		t.Fatalf("list length = %d, want 50", len(list))
	}
	if list[0].ID < list[len(list)-1].ID {
		t.Fatal("notifications must be newest first")
	}

	if err := env.notifier.MarkRead(ctx, *alice.UserID, list[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := env.notifier.MarkRead(ctx, *alice.UserID, list[0].ID); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	count, _ := env.notifier.UnreadCount(ctx, *alice.UserID)
	if count != 54 {
		t.Fatalf("unread = %d, want 54", count)
	}

	if err := env.notifier.MarkAllRead(ctx, *alice.UserID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if count, _ := env.notifier.UnreadCount(ctx, *alice.UserID); count != 0 {
		t.Fatalf("unread after mark-all = %d", count)
	}
}

func TestNotificationOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", "user")
	bob := env.createUser(t, "bob", "user")

	env.notifier.Notify(ctx, Notice{TargetUserID: alice.UserID, Type: models.NotificationLikePost, Source: bob, Message: "m"})
	id := env.notificationsFor(t, alice)[0].ID

	if err := env.notifier.MarkRead(ctx, *bob.UserID, id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign MarkRead: err = %v, want ErrForbidden", err)
	}
	if err := env.notifier.Delete(ctx, *bob.UserID, id); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign Delete: err = %v, want ErrForbidden", err)
	}
	list := env.notificationsFor(t, alice)
	if len(list) != 1 || list[0].IsRead {
		t.Fatal("foreign calls must not mutate the notification")
	}

	if err := env.notifier.Delete(ctx, *alice.UserID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: err = %v, want ErrNotFound", err)
	}
	if err := env.notifier.Delete(ctx, *alice.UserID, id); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}
	if len(env.notificationsFor(t, alice)) != 0 {
		t.Fatal("notification not deleted")
	}
}
