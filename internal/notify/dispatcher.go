package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Common errors returned by the Dispatcher.
var (
	ErrQueueClosed = errors.New("reminder queue is closed")
	ErrQueueFull   = errors.New("reminder queue is full")
)

// DispatcherConfig holds the queue and worker settings.
type DispatcherConfig struct {
	// QueueSize is the number of reminders that may wait for a worker.
	QueueSize int
	// Workers is the number of concurrent deliveries. Zero or less means one.
	Workers int
	// DeliveryTimeout bounds a single delivery attempt.
	DeliveryTimeout time.Duration
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{QueueSize: 256, Workers: 2, DeliveryTimeout: 30 * time.Second}
}

type delivery struct {
	userID string
	batch  []Pair
}

// Dispatcher is a Notifier that queues reminders and hands them to a pool of
// workers calling the wrapped Notifier. SendReminder never blocks on delivery.
type Dispatcher struct {
	next    Notifier
	config  DispatcherConfig
	queue   chan delivery
	logger  *slog.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	started bool

	// onResult, when set, observes every finished delivery.
	onResult func(userID string, err error)
}

// NewDispatcher wraps next. Call Start before sending and Stop on shutdown.
func NewDispatcher(next Notifier, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if next == nil {
		panic("next notifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Workers <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.Workers,
			"default_count", 1)
		config.Workers = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultDispatcherConfig().QueueSize
	}
	if config.DeliveryTimeout <= 0 {
		config.DeliveryTimeout = DefaultDispatcherConfig().DeliveryTimeout
	}

	return &Dispatcher{
		next:   next,
		config: config,
		queue:  make(chan delivery, config.QueueSize),
		logger: logger.With(slog.String("component", "reminder_dispatcher")),
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.config.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("reminder dispatcher started", slog.Int("workers", d.config.Workers))
}

// SendReminder queues the batch and returns immediately.
func (d *Dispatcher) SendReminder(ctx context.Context, userID string, batch []Pair) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.queue <- delivery{userID: userID, batch: batch}:
		d.logger.DebugContext(ctx, "reminder enqueued",
			slog.String("user_id", userID),
			slog.Int("queue_len", len(d.queue)))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.queue))
	}
}

// Stop rejects new reminders, lets the workers drain what is queued and
// waits for them to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("reminder dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	log := d.logger.With(slog.Int("worker_id", id))

	for job := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliveryTimeout)
		err := d.next.SendReminder(ctx, job.userID, job.batch)
		cancel()

		if err != nil {
			log.Error("reminder delivery failed",
				slog.String("user_id", job.userID),
				slog.Int("cards", len(job.batch)),
				slog.String("error", err.Error()))
		}
		if d.onResult != nil {
			d.onResult(job.userID, err)
		}
	}
}
