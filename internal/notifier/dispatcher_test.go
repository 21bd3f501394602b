package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/internal/repository"
	"github.com/silowatch/silowatch/pkg/logger"
)

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []int64
	failFor map[int64]error
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, _ models.OutboundMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

func createSub(t *testing.T, store *repository.MemoryStore, chatID int64) *models.Subscription {
	t.Helper()
	sub, err := store.Create(&models.SubscriptionDraft{
		ChatID:  chatID,
		Creator: 1,
		Position: models.PositionKey{
			ChainID: 1,
			Silo:    testSilo,
			Account: testAccount,
		},
		NotificationThreshold: 1.0,
		CooldownSeconds:       3600,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sub
}

func TestDispatchIsolatesRecipientFailures(t *testing.T) {
	store := repository.NewMemoryStore()
	s1 := createSub(t, store, 101)
	s2 := createSub(t, store, 102)
	s3 := createSub(t, store, 103)

	msgr := &fakeMessenger{failFor: map[int64]error{102: errors.New("blocked by user")}}
	d := NewDispatcher(store, msgr, time.Second, logger.NewNop())

	update := testUpdate(0.5, 10)
	subs, _ := store.ListAll()
	d.Dispatch(context.Background(), update, subs)

	if len(msgr.sent) != 2 {
		t.Fatalf("expected 2 successful sends, got %d", len(msgr.sent))
	}

	for _, id := range []int64{s1.ID, s3.ID} {
		got, _ := store.Get(id)
		if got.LastNotifiedAt == nil {
			t.Errorf("subscription %d should have lastNotifiedAt set", id)
		}
	}
	failed, _ := store.Get(s2.ID)
	if failed.LastNotifiedAt != nil {
		t.Error("failed recipient must not have lastNotifiedAt updated")
	}
}

func TestDispatchWriteBackOnlyAfterSuccess(t *testing.T) {
	store := repository.NewMemoryStore()
	sub := createSub(t, store, 101)

	msgr := &fakeMessenger{failFor: map[int64]error{101: context.DeadlineExceeded}}
	d := NewDispatcher(store, msgr, time.Second, logger.NewNop())

	d.Dispatch(context.Background(), testUpdate(0.5, 10), []*models.Subscription{sub})

	got, _ := store.Get(sub.ID)
	if got.LastNotifiedAt != nil {
		t.Error("timed-out send must leave lastNotifiedAt untouched")
	}
}

func TestCooldownMonotonicity(t *testing.T) {
	store := repository.NewMemoryStore()
	sub := createSub(t, store, 101)

	t0 := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	clock := t0

	msgr := &fakeMessenger{}
	d := NewDispatcher(store, msgr, time.Second, logger.NewNop())
	d.now = func() time.Time { return clock }

	m := NewMatcher(store, logger.NewNop())
	m.now = func() time.Time { return clock }

	// First eligible update dispatches and stamps t0.
	eligible, _ := m.Match(testUpdate(0.5, 10))
	d.Dispatch(context.Background(), testUpdate(0.5, 10), eligible)
	if len(msgr.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(msgr.sent))
	}

	// However many eligible updates arrive before t0+cooldown, none dispatch.
	for i, offset := range []time.Duration{time.Second, 30 * time.Minute, 59 * time.Minute} {
		clock = t0.Add(offset)
		eligible, _ = m.Match(testUpdate(0.4, int64(11+i)))
		if len(eligible) != 0 {
			t.Errorf("update at t0+%v must be held back by cooldown", offset)
		}
	}

	// At exactly t0+cooldown the subscription is eligible again.
	clock = t0.Add(time.Duration(sub.CooldownSeconds) * time.Second)
	eligible, _ = m.Match(testUpdate(0.4, 20))
	if len(eligible) != 1 {
		t.Error("subscription must be eligible once the cooldown has elapsed")
	}
}

func TestFormatAlertCarriesActions(t *testing.T) {
	sub := &models.Subscription{ID: 9, Account: testAccount}
	msg := FormatAlert(testUpdate(0.42, 123), sub)

	if msg.Format != models.FormatMarkdown {
		t.Error("alert should be markdown formatted")
	}
	if len(msg.Actions) != 4 {
		t.Fatalf("expected 4 actions, got %d", len(msg.Actions))
	}
	if msg.Actions[3].CallbackToken != "details:9" {
		t.Errorf("manage action should reference the subscription, got %q", msg.Actions[3].CallbackToken)
	}
}
