package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/api/metrics"
	"github.com/99minutos/identity-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the account, preserving per-account event order.
type Dispatcher struct {
	workers []chan ports.AuthEvent
	repo    ports.AuthEventRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuthEventRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands an event to the worker responsible for its account. It never
// blocks the caller: when that worker's buffer is full the event is dropped.
func (d *Dispatcher) Publish(event ports.AuthEvent) {
	metrics.AuthEventsTotal.WithLabelValues(string(event.Type)).Inc()

	idx := d.shardIndex(shardKey(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuthEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuthEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("event_type", string(event.Type)).
			Str("account_id", event.AccountID).
			Int("worker_id", idx).
			Msg("audit buffer full, event dropped")
	}
}

func shardKey(e ports.AuthEvent) string {
	if e.AccountID != "" {
		return e.AccountID
	}
	return e.Email
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuthEvent) {
	depth := metrics.AuthEventsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			if err := d.repo.InsertEvent(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("event_type", string(event.Type)).
					Str("account_id", event.AccountID).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
