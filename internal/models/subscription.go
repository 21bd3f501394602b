package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/silowatch/silowatch/pkg/validation"
)

const (
	// MinCooldownSeconds is the shortest interval allowed between two
	// notifications for one subscription. Enforced at write time.
	MinCooldownSeconds = 60
	// MaxNotificationThreshold caps the health factor a subscription may
	// alert on. Applied uniformly at creation and edit time.
	MaxNotificationThreshold = 2.0

	// DefaultCooldownSeconds is used when the wizard offers a preset.
	DefaultCooldownSeconds = 3600
	// DefaultLanguage is the locale applied when a user never picks one.
	DefaultLanguage = "en"
)

var (
	// ErrValidation marks user-correctable input problems.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup for a record that does not exist.
	ErrNotFound = errors.New("not found")
)

// PositionKey identifies one on-chain lending position.
type PositionKey struct {
	ChainID int    `json:"chainId"`
	Silo    string `json:"silo"`
	Account string `json:"account"`
}

// Normalize lowercases both addresses so keys compare byte-for-byte.
func (k PositionKey) Normalize() PositionKey {
	return PositionKey{
		ChainID: k.ChainID,
		Silo:    validation.NormalizeAddress(k.Silo),
		Account: validation.NormalizeAddress(k.Account),
	}
}

func (k PositionKey) Validate() error {
	if k.ChainID <= 0 {
		return fmt.Errorf("%w: chain id must be positive, got %d", ErrValidation, k.ChainID)
	}
	if err := validation.ValidateAddress(k.Silo); err != nil {
		return fmt.Errorf("%w: silo address: %s", ErrValidation, err)
	}
	if err := validation.ValidateAddress(k.Account); err != nil {
		return fmt.Errorf("%w: account address: %s", ErrValidation, err)
	}
	return nil
}

func (k PositionKey) String() string {
	return fmt.Sprintf("%d:%s:%s", k.ChainID, k.Silo, k.Account)
}

// Subscription is one user's watch on one position.
type Subscription struct {
	// ID is the unique identifier for the subscription.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// ChatID is the chat that receives notifications. May be a group chat.
	ChatID int64 `json:"chat_id" gorm:"column:chat_id;not null"`
	// Creator is the user who created the subscription. Distinct from ChatID.
	Creator int64 `json:"creator" gorm:"column:creator;index;not null"`
	// ChainID, Silo and Account together form the position key.
	ChainID int    `json:"chain_id" gorm:"column:chain_id;not null;index:idx_subscriptions_position"`
	Silo    string `json:"silo" gorm:"column:silo;not null;index:idx_subscriptions_position"`
	Account string `json:"account" gorm:"column:account;not null;index:idx_subscriptions_position"`
	// NotificationThreshold fires an alert when the health factor is <= it.
	NotificationThreshold float64 `json:"notification_threshold" gorm:"column:notification_threshold;not null"`
	// CooldownSeconds is the minimum interval between two notifications.
	CooldownSeconds int `json:"cooldown_seconds" gorm:"column:cooldown_seconds;not null;default:60"`
	// LastNotifiedAt is the last time a notification was actually dispatched.
	LastNotifiedAt *time.Time `json:"last_notified_at" gorm:"column:last_notified_at"`
	// Paused subscriptions are matched but never dispatched.
	Paused bool `json:"paused" gorm:"column:paused;not null;default:false"`
	// Language is the locale tag used when formatting messages.
	Language string `json:"language" gorm:"column:language;not null;default:en"`
	// ChatTitle is a display name for the delivery chat.
	ChatTitle string `json:"chat_title" gorm:"column:chat_title"`
	// CreatedAt is the unix timestamp when the subscription was created.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at"`
}

// Key returns the position key of the subscription.
func (s *Subscription) Key() PositionKey {
	return PositionKey{ChainID: s.ChainID, Silo: s.Silo, Account: s.Account}.Normalize()
}

// CooldownElapsed reports whether the subscription may be notified again at now.
func (s *Subscription) CooldownElapsed(now time.Time) bool {
	if s.LastNotifiedAt == nil {
		return true
	}
	return now.Sub(*s.LastNotifiedAt) >= time.Duration(s.CooldownSeconds)*time.Second
}

// SubscriptionDraft carries the fields collected by the watch wizard.
type SubscriptionDraft struct {
	ChatID                int64
	Creator               int64
	Position              PositionKey
	NotificationThreshold float64
	CooldownSeconds       int
	Language              string
	ChatTitle             string
}

func (d *SubscriptionDraft) Validate() error {
	if err := d.Position.Validate(); err != nil {
		return err
	}
	if err := ValidateThreshold(d.NotificationThreshold); err != nil {
		return err
	}
	if err := ValidateCooldown(d.CooldownSeconds); err != nil {
		return err
	}
	if d.ChatID == 0 {
		return fmt.Errorf("%w: delivery chat id is required", ErrValidation)
	}
	if d.Creator == 0 {
		return fmt.Errorf("%w: creator id is required", ErrValidation)
	}
	return nil
}

// ValidateThreshold checks the (0, 2] bound used everywhere thresholds are written.
func ValidateThreshold(threshold float64) error {
	if threshold <= 0 || threshold > MaxNotificationThreshold {
		return fmt.Errorf("%w: threshold must be in (0, %g], got %g", ErrValidation, MaxNotificationThreshold, threshold)
	}
	return nil
}

// ValidateCooldown checks the 60 second floor used everywhere cooldowns are written.
func ValidateCooldown(seconds int) error {
	if seconds < MinCooldownSeconds {
		return fmt.Errorf("%w: cooldown must be at least %d seconds, got %d", ErrValidation, MinCooldownSeconds, seconds)
	}
	return nil
}

// SubscriptionUpdate is a partial mutation of subscription settings.
// Nil fields are left untouched.
type SubscriptionUpdate struct {
	NotificationThreshold *float64
	CooldownSeconds       *int
	Language              *string
}

func (u *SubscriptionUpdate) Validate() error {
	if u.NotificationThreshold != nil {
		if err := ValidateThreshold(*u.NotificationThreshold); err != nil {
			return err
		}
	}
	if u.CooldownSeconds != nil {
		if err := ValidateCooldown(*u.CooldownSeconds); err != nil {
			return err
		}
	}
	if u.NotificationThreshold == nil && u.CooldownSeconds == nil && u.Language == nil {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	return nil
}
