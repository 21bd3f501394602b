package notifier

import (
	"context"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

// Service ties the matcher and dispatcher together into the per-update
// pipeline: one call handles one update end to end.
type Service struct {
	matcher    *Matcher
	dispatcher *Dispatcher
	log        *logger.Logger
}

func NewService(matcher *Matcher, dispatcher *Dispatcher, log *logger.Logger) *Service {
	return &Service{matcher: matcher, dispatcher: dispatcher, log: log}
}

// HandleUpdate matches and dispatches one health factor update.
func (s *Service) HandleUpdate(ctx context.Context, update *models.HealthFactorUpdate) {
	updatesProcessed.Inc()

	eligible, err := s.matcher.Match(update)
	if err != nil {
		s.log.Error("Failed to match update ", "position ", update.Key().String(), " error ", err)
		return
	}
	if len(eligible) == 0 {
		return
	}

	s.log.Debug("Dispatching update ", "position ", update.Key().String(), " recipients ", len(eligible))
	s.dispatcher.Dispatch(ctx, update, eligible)
}
