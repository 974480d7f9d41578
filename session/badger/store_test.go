package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/session"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore("", true)
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTurnBasics(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	turn := &core.Turn{
		Role:      core.RoleUser,
		Content:   "What is the refund policy?",
		CreatedAt: time.Now().UTC(),
	}

	added, err := store.AddTurns(ctx, turn)
	if err != nil {
		t.Fatalf("Failed to add turn: %v", err)
	}

	if len(added) != 1 {
		t.Fatalf("Expected 1 turn, got %d", len(added))
	}
	if added[0].Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	retrieved, err := store.GetTurn(ctx, added[0].Id)
	if err != nil {
		t.Fatalf("Failed to get turn: %v", err)
	}
	if retrieved.Content != "What is the refund policy?" {
		t.Fatalf("Expected question text, got '%s'", retrieved.Content)
	}
	if retrieved.Role != core.RoleUser {
		t.Fatalf("Expected user role, got %v", retrieved.Role)
	}
}

func TestAddTurns_ContentHashIdempotent(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	first := &core.Turn{Role: core.RoleUser, Content: "same question"}
	second := &core.Turn{Role: core.RoleUser, Content: "same question"}

	if _, err := store.AddTurns(ctx, first); err != nil {
		t.Fatalf("Failed to add first turn: %v", err)
	}
	if _, err := store.AddTurns(ctx, second); err != nil {
		t.Fatalf("Failed to add second turn: %v", err)
	}

	if first.Id != second.Id {
		t.Fatalf("Expected same content to hash to same ID, got %d and %d", first.Id, second.Id)
	}
	if first.Id != core.IDFromContent("same question") {
		t.Fatal("Expected ID derived from content")
	}
}

func TestAddTurns_StampsCreatedAt(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	turn := &core.Turn{Role: core.RoleUser, Content: "no timestamp"}
	added, err := store.AddTurns(ctx, turn)
	if err != nil {
		t.Fatalf("Failed to add turn: %v", err)
	}
	if added[0].CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be stamped")
	}
}

func TestAddTurns_RejectsInvalid(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	_, err := store.AddTurns(ctx, &core.Turn{Role: core.RoleUser, Content: ""})
	if !errors.Is(err, core.ErrEmptyTurnContent) {
		t.Fatalf("Expected ErrEmptyTurnContent, got %v", err)
	}

	_, err = store.AddTurns(ctx, &core.Turn{Role: core.Role(9), Content: "hello"})
	if !errors.Is(err, core.ErrInvalidRole) {
		t.Fatalf("Expected ErrInvalidRole, got %v", err)
	}

	// A bad turn anywhere in the batch rejects the whole batch.
	good := &core.Turn{Role: core.RoleUser, Content: "fine"}
	bad := &core.Turn{Role: core.RoleUser, Content: ""}
	if _, err := store.AddTurns(ctx, good, bad); err == nil {
		t.Fatal("Expected batch with invalid turn to fail")
	}
	if _, err := store.GetTurn(ctx, core.IDFromContent("fine")); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("Expected no partial write, got %v", err)
	}
}

func TestGetTurn_NotFound(t *testing.T) {
	store := newMemoryStore(t)

	_, err := store.GetTurn(context.Background(), core.ID(12345))
	if !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecentTurns_ChronologicalOrder(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)
	turns := []*core.Turn{
		{Role: core.RoleUser, Content: "first question", CreatedAt: base},
		{Role: core.RoleAssistant, Content: "first answer", CreatedAt: base.Add(1 * time.Second)},
		{Role: core.RoleUser, Content: "second question", CreatedAt: base.Add(2 * time.Second)},
		{Role: core.RoleAssistant, Content: "second answer", CreatedAt: base.Add(3 * time.Second)},
	}
	if _, err := store.AddTurns(ctx, turns...); err != nil {
		t.Fatalf("Failed to add turns: %v", err)
	}

	recent, err := store.RecentTurns(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get recent turns: %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("Expected 4 turns, got %d", len(recent))
	}
	for i, want := range []string{"first question", "first answer", "second question", "second answer"} {
		if recent[i].Content != want {
			t.Fatalf("Position %d: expected '%s', got '%s'", i, want, recent[i].Content)
		}
	}
}

func TestRecentTurns_LimitKeepsNewest(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 12, 9, 0, 0, 0, time.UTC)
	turns := []*core.Turn{
		{Role: core.RoleUser, Content: "oldest", CreatedAt: base},
		{Role: core.RoleAssistant, Content: "middle", CreatedAt: base.Add(1 * time.Second)},
		{Role: core.RoleUser, Content: "newest", CreatedAt: base.Add(2 * time.Second)},
	}
	if _, err := store.AddTurns(ctx, turns...); err != nil {
		t.Fatalf("Failed to add turns: %v", err)
	}

	recent, err := store.RecentTurns(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to get recent turns: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(recent))
	}
	if recent[0].Content != "middle" || recent[1].Content != "newest" {
		t.Fatalf("Expected the two newest turns oldest-first, got '%s', '%s'",
			recent[0].Content, recent[1].Content)
	}
}

func TestRecentTurns_InvalidLimit(t *testing.T) {
	store := newMemoryStore(t)

	for _, limit := range []int{0, -1} {
		_, err := store.RecentTurns(context.Background(), limit)
		if !errors.Is(err, session.ErrInvalidLimit) {
			t.Fatalf("Limit %d: expected ErrInvalidLimit, got %v", limit, err)
		}
	}
}

func TestRecentTurns_Empty(t *testing.T) {
	store := newMemoryStore(t)

	recent, err := store.RecentTurns(context.Background(), 5)
	if err != nil {
		t.Fatalf("Failed to get recent turns: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("Expected no turns, got %d", len(recent))
	}
}
