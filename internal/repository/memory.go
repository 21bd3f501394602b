package repository

import (
	"sync"
	"time"

	"github.com/silowatch/silowatch/internal/models"
)

// MemoryStore is an in-memory SubscriptionStore with the same semantics as
// the Postgres store. Used in tests and for local development without a
// database.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*models.Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, subs: make(map[int64]*models.Subscription)}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Create(draft *models.SubscriptionDraft) (*models.Subscription, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := draft.Position.Normalize()
	sub := &models.Subscription{
		ID:                    m.nextID,
		ChatID:                draft.ChatID,
		Creator:               draft.Creator,
		ChainID:               key.ChainID,
		Silo:                  key.Silo,
		Account:               key.Account,
		NotificationThreshold: draft.NotificationThreshold,
		CooldownSeconds:       draft.CooldownSeconds,
		Language:              draft.Language,
		ChatTitle:             draft.ChatTitle,
		CreatedAt:             time.Now().Unix(),
	}
	if sub.Language == "" {
		sub.Language = models.DefaultLanguage
	}
	m.nextID++
	m.subs[sub.ID] = sub

	out := *sub
	return &out, nil
}

func (m *MemoryStore) Get(id int64) (*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *sub
	return &out, nil
}

func (m *MemoryStore) ListByCreator(creator int64) ([]*models.Subscription, error) {
	return m.list(func(s *models.Subscription) bool { return s.Creator == creator })
}

func (m *MemoryStore) ListByPosition(key models.PositionKey) ([]*models.Subscription, error) {
	key = key.Normalize()
	return m.list(func(s *models.Subscription) bool { return s.Key() == key })
}

func (m *MemoryStore) ListAll() ([]*models.Subscription, error) {
	return m.list(func(*models.Subscription) bool { return true })
}

func (m *MemoryStore) list(match func(*models.Subscription) bool) ([]*models.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Subscription
	for _, sub := range m.subs {
		if match(sub) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryStore) Update(id int64, fields models.SubscriptionUpdate) error {
	if err := fields.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[id]
	if !ok {
		return models.ErrNotFound
	}
	if fields.NotificationThreshold != nil {
		sub.NotificationThreshold = *fields.NotificationThreshold
	}
	if fields.CooldownSeconds != nil {
		sub.CooldownSeconds = *fields.CooldownSeconds
	}
	if fields.Language != nil {
		sub.Language = *fields.Language
	}
	return nil
}

func (m *MemoryStore) SetPaused(id int64, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subs[id]
	if !ok {
		return models.ErrNotFound
	}
	sub.Paused = paused
	return nil
}

func (m *MemoryStore) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *MemoryStore) BulkSetPaused(creator int64, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs {
		if sub.Creator == creator {
			sub.Paused = paused
		}
	}
	return nil
}

func (m *MemoryStore) BulkDelete(creator int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, sub := range m.subs {
		if sub.Creator == creator {
			delete(m.subs, id)
		}
	}
	return nil
}

func (m *MemoryStore) RecordNotified(id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Missing id means a concurrent delete won; the write-back is a no-op.
	sub, ok := m.subs[id]
	if !ok {
		return nil
	}
	t := at
	sub.LastNotifiedAt = &t
	return nil
}
