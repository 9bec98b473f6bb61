package events

import (
	"context"
	"errors"
	"testing"
)

type recorder struct {
	got    []Event
	err    error
	closed bool
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.got = append(r.got, e)
	return r.err
}

func (r *recorder) Close() error {
	r.closed = true
	return r.err
}

func TestNew(t *testing.T) {
	uid := uint(7)
	e := New(PostLiked, "user:7", &uid, map[string]uint{"post_id": 3})
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Fatalf("event not stamped: %+v", e)
	}
	if e.Type != PostLiked || e.Refs["post_id"] != 3 || *e.UserID != 7 {
		t.Fatalf("unexpected event %+v", e)
	}
	if New(PostLiked, "", nil, nil).ID == e.ID {
		t.Fatal("event ids must be unique")
	}
}

func TestMultiFansOutAndJoinsErrors(t *testing.T) {
	boom := errors.New("broker down")
	ok := &recorder{}
	failing := &recorder{err: boom}
	m := Multi{failing, ok}

	err := m.Publish(context.Background(), New(PostCreated, "ip:1", nil, nil))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if len(ok.got) != 1 || len(failing.got) != 1 {
		t.Fatal("every publisher must receive the event even when one fails")
	}

	if err := m.Close(); !errors.Is(err, boom) {
		t.Fatalf("close err = %v", err)
	}
	if !ok.closed || !failing.closed {
		t.Fatal("every publisher must be closed")
	}

	if err := (Multi{ok}).Publish(context.Background(), Event{}); err != nil {
		t.Fatalf("healthy fan-out returned %v", err)
	}
}
