package notifier

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

// Dispatcher sends one alert per eligible subscription and records the send
// timestamp back into the store. A failure for one recipient never aborts
// the remaining recipients of the same update.
type Dispatcher struct {
	store       models.SubscriptionStore
	messenger   models.Messenger
	log         *logger.Logger
	sendTimeout time.Duration
	now         func() time.Time
}

func NewDispatcher(store models.SubscriptionStore, messenger models.Messenger, sendTimeout time.Duration, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:       store,
		messenger:   messenger,
		log:         log,
		sendTimeout: sendTimeout,
		now:         time.Now,
	}
}

// Dispatch delivers the update to every eligible subscription. Delivery
// order across recipients is unspecified.
func (d *Dispatcher) Dispatch(ctx context.Context, update *models.HealthFactorUpdate, subs []*models.Subscription) {
	for _, sub := range subs {
		d.dispatchOne(ctx, update, sub)
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, update *models.HealthFactorUpdate, sub *models.Subscription) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Dispatch panicked",
				"subscription", sub.ID,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	msg := FormatAlert(update, sub)

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	start := d.now()
	err := d.messenger.Send(sendCtx, sub.ChatID, msg)
	dispatchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		// A timed-out send is a failed send. No write-back, so the same
		// cooldown window stays open for the next eligible update.
		sendFailures.Inc()
		d.log.Error("Failed to send notification ", "subscription ", sub.ID, " chat ", sub.ChatID, " error ", err)
		return
	}

	notificationsSent.Inc()
	if err := d.store.RecordNotified(sub.ID, d.now()); err != nil {
		d.log.Error("Failed to record notification time ", "subscription ", sub.ID, " error ", err)
	}
}
