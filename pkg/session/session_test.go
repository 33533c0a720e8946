package session

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/generator"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	sess := New("noise", generator.New(), store.TTL())
	if sess.ID == "" {
		t.Fatal("New should assign an ID")
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != sess {
		t.Error("Get should return the stored session")
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("Get after Delete: err = %v, want SESSION_NOT_FOUND", err)
	}
	if err := store.Delete(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("second Delete: err = %v, want SESSION_NOT_FOUND", err)
	}
}

func TestMemoryStore_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := New("noise", generator.New(), time.Minute).ID
		if seen[id] {
			t.Fatalf("duplicate session ID %q", id)
		}
		seen[id] = true
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	sess := New("noise", generator.New(), time.Minute)
	sess.ExpiresAt = time.Now().Add(-time.Second)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("expired session: err = %v, want SESSION_NOT_FOUND", err)
	}

	n, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after Cleanup, want 0", store.Len())
	}
}

func TestMemoryStore_GetExtendsExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	sess := New("noise", generator.New(), time.Second)
	before := sess.ExpiresAt
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if !sess.ExpiresAt.After(before.Add(30 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about an hour from now", sess.ExpiresAt)
	}
}

func TestMemoryStore_SetValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	if store.TTL() != DefaultTTL {
		t.Errorf("TTL() = %v, want %v", store.TTL(), DefaultTTL)
	}
	if err := store.Set(ctx, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Set(nil): err = %v", err)
	}
	if err := store.Set(ctx, &Session{ID: "x"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Set without generator: err = %v", err)
	}
}

func TestMemoryStore_Janitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewMemoryStore(time.Minute)

	sess := New("noise", generator.New(), time.Minute)
	sess.ExpiresAt = time.Now().Add(-time.Second)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		store.Janitor(ctx, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for store.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if store.Len() != 0 {
		t.Error("janitor should remove expired sessions")
	}
}
