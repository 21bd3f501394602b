package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/silowatch/silowatch/internal/models"
)

func draftFor(creator int64, chatID int64) *models.SubscriptionDraft {
	return &models.SubscriptionDraft{
		ChatID:  chatID,
		Creator: creator,
		Position: models.PositionKey{
			ChainID: 42161,
			Silo:    "0x4f5e8ca2cadecaf7b4b82b3e3b0a2b59b04b5f37",
			Account: "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
		},
		NotificationThreshold: 1.0,
		CooldownSeconds:       3600,
	}
}

func TestMemoryBulkActionsScopeByCreator(t *testing.T) {
	store := NewMemoryStore()

	// Two creators watching the same position.
	a1, _ := store.Create(draftFor(1, 100))
	a2, _ := store.Create(draftFor(1, 101))
	b1, _ := store.Create(draftFor(2, 200))

	if err := store.BulkSetPaused(1, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []int64{a1.ID, a2.ID} {
		sub, err := store.Get(id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sub.Paused {
			t.Errorf("subscription %d of creator 1 should be paused", id)
		}
	}
	other, _ := store.Get(b1.ID)
	if other.Paused {
		t.Error("subscription of creator 2 must be untouched")
	}

	if err := store.BulkDelete(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(a1.ID); !errors.Is(err, models.ErrNotFound) {
		t.Error("creator 1 subscriptions should be gone")
	}
	if _, err := store.Get(b1.ID); err != nil {
		t.Error("creator 2 subscription should survive")
	}
}

func TestMemoryRecordNotifiedAfterDelete(t *testing.T) {
	store := NewMemoryStore()
	sub, _ := store.Create(draftFor(1, 100))

	if err := store.Delete(sub.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Delete wins over the write-back.
	if err := store.RecordNotified(sub.ID, time.Now()); err != nil {
		t.Errorf("write-back to a deleted subscription must be a no-op, got %v", err)
	}
}

func TestMemoryListByPositionNormalizes(t *testing.T) {
	store := NewMemoryStore()
	sub, _ := store.Create(draftFor(1, 100))

	subs, err := store.ListByPosition(models.PositionKey{
		ChainID: 42161,
		Silo:    "0x4F5E8CA2CADECAF7B4B82B3E3B0A2B59B04B5F37",
		Account: "0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != sub.ID {
		t.Fatalf("expected the subscription regardless of address casing, got %v", subs)
	}
}

func TestMemoryPauseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	sub, _ := store.Create(draftFor(1, 100))

	for i := 0; i < 2; i++ {
		if err := store.SetPaused(sub.ID, true); err != nil {
			t.Fatalf("pause attempt %d failed: %v", i+1, err)
		}
	}
	got, _ := store.Get(sub.ID)
	if !got.Paused {
		t.Error("subscription should be paused")
	}
}
