package models

import "time"

// SubscriptionStore is the persistence contract for subscriptions.
// All operations are atomic at the single-record granularity and none of
// them sends messages.
type SubscriptionStore interface {
	// Create validates the draft and persists a new subscription.
	Create(draft *SubscriptionDraft) (*Subscription, error)
	// Get returns ErrNotFound when no record has the given id.
	Get(id int64) (*Subscription, error)

	ListByCreator(creator int64) ([]*Subscription, error)
	ListByPosition(key PositionKey) ([]*Subscription, error)
	ListAll() ([]*Subscription, error)

	// Update applies a validated partial settings mutation.
	Update(id int64, fields SubscriptionUpdate) error
	SetPaused(id int64, paused bool) error
	Delete(id int64) error

	BulkSetPaused(creator int64, paused bool) error
	BulkDelete(creator int64) error

	// RecordNotified is the dispatcher's write-back after a confirmed send.
	// A write-back to a missing id is a no-op, not an error: a concurrent
	// delete wins.
	RecordNotified(id int64, at time.Time) error

	Close() error
}
