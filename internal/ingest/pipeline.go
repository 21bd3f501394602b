package ingest

import (
	"context"
	"hash/fnv"
	"runtime/debug"
	"sync"

	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/pkg/logger"
)

// Handler processes one update end to end (match + dispatch).
type Handler func(ctx context.Context, update *models.HealthFactorUpdate)

// Pipeline fans updates out to a fixed set of workers. Updates for the same
// position always land on the same worker, so they are processed in arrival
// order; different positions run concurrently.
type Pipeline struct {
	handler Handler
	log     *logger.Logger
	queues  []chan *models.HealthFactorUpdate
	wg      sync.WaitGroup
}

func NewPipeline(workers int, handler Handler, log *logger.Logger) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	queues := make([]chan *models.HealthFactorUpdate, workers)
	for i := range queues {
		queues[i] = make(chan *models.HealthFactorUpdate, 64)
	}
	return &Pipeline{handler: handler, log: log, queues: queues}
}

// Start launches the workers. They run until Stop closes the queues.
func (p *Pipeline) Start(ctx context.Context) {
	for i, queue := range p.queues {
		p.wg.Add(1)
		go func(worker int, queue chan *models.HealthFactorUpdate) {
			defer p.wg.Done()
			for update := range queue {
				p.handle(ctx, worker, update)
			}
		}(i, queue)
	}
}

// Submit routes one update to its position's worker.
func (p *Pipeline) Submit(update *models.HealthFactorUpdate) {
	p.queues[p.shard(update.Key())] <- update
}

// Stop closes the queues and waits for in-flight updates to drain.
func (p *Pipeline) Stop() {
	for _, queue := range p.queues {
		close(queue)
	}
	p.wg.Wait()
}

func (p *Pipeline) handle(ctx context.Context, worker int, update *models.HealthFactorUpdate) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Update handler panicked ",
				"worker ", worker,
				" position ", update.Key().String(),
				" panic ", r,
				" stack ", string(debug.Stack()))
		}
	}()
	p.handler(ctx, update)
}

func (p *Pipeline) shard(key models.PositionKey) int {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	return int(h.Sum32() % uint32(len(p.queues)))
}
