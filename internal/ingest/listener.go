package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/silowatch/silowatch/pkg/logger"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener receives health factor updates pushed by the indexer through
// Postgres LISTEN/NOTIFY and feeds them into the pipeline.
type Listener struct {
	dsn      string
	channel  string
	pipeline *Pipeline
	log      *logger.Logger
}

func NewListener(dsn, channel string, pipeline *Pipeline, log *logger.Logger) *Listener {
	return &Listener{dsn: dsn, channel: channel, pipeline: pipeline, log: log}
}

// Run blocks listening for notifications until the context is canceled.
func (l *Listener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				l.log.Warn("Listener connection event ", "event ", ev, " error ", err)
			}
		})
	defer listener.Close()

	if err := listener.Listen(l.channel); err != nil {
		return fmt.Errorf("failed to listen on channel %s: %s", l.channel, err)
	}
	l.log.Info("Listening for health factor notifications ", "channel ", l.channel)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-listener.Notify:
			// A nil notification signals a re-established connection.
			if n == nil {
				l.log.Debug("Listener reconnected")
				continue
			}
			l.consume(n.Extra)
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					l.log.Warn("Listener ping failed ", "error ", err)
				}
			}()
		}
	}
}

func (l *Listener) consume(payload string) {
	update, err := ParseUpdate([]byte(payload))
	if err != nil {
		// Malformed records are rejected and dropped, never fatal.
		l.log.Error("Dropping malformed update payload ", "error ", err)
		return
	}
	l.pipeline.Submit(update)
}
