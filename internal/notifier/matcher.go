package notifier

import (
	"sync"
	"time"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

// Matcher evaluates which subscriptions are eligible for one incoming
// health factor update.
type Matcher struct {
	store models.SubscriptionStore
	log   *logger.Logger
	now   func() time.Time

	// lastBlock tracks the newest block seen per position so stale
	// updates arriving out of order are dropped instead of overwriting a
	// fresher observation.
	mu        sync.Mutex
	lastBlock map[models.PositionKey]int64
}

func NewMatcher(store models.SubscriptionStore, log *logger.Logger) *Matcher {
	return &Matcher{
		store:     store,
		log:       log,
		now:       time.Now,
		lastBlock: make(map[models.PositionKey]int64),
	}
}

// Match returns the subscriptions that should be notified for the update.
// Ineligible candidates are dropped silently; that is steady-state behavior,
// not an error.
func (m *Matcher) Match(update *models.HealthFactorUpdate) ([]*models.Subscription, error) {
	key := update.Key()

	if m.isStale(key, update.BlockNumber) {
		staleUpdatesDropped.Inc()
		m.log.Debug("Dropping stale update ", "position ", key.String(), " block ", update.BlockNumber)
		return nil, nil
	}

	candidates, err := m.store.ListByPosition(key)
	if err != nil {
		return nil, err
	}

	now := m.now()
	var eligible []*models.Subscription
	for _, sub := range candidates {
		if sub.Paused {
			continue
		}
		if sub.Key() != key {
			continue
		}
		if update.HealthFactor > sub.NotificationThreshold {
			continue
		}
		if !sub.CooldownElapsed(now) {
			continue
		}
		eligible = append(eligible, sub)
	}
	return eligible, nil
}

func (m *Matcher) isStale(key models.PositionKey, block int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if last, ok := m.lastBlock[key]; ok && block < last {
		return true
	}
	m.lastBlock[key] = block
	return false
}
