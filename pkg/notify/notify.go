package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/pkg/jobs"
)

// Message is one notification to a single recipient. Template identifies the
// body rendered downstream; rendering itself is owned by the mail provider.
type Message struct {
	To       string
	Subject  string
	Template string
	Context  map[string]string
}

// Sender delivers a notification. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Handle identifies a scheduled notification so it can be revoked.
type Handle string

// Scheduler delivers notifications at a future instant and supports
// revocation before the instant arrives.
type Scheduler interface {
	Schedule(msg Message, at time.Time) Handle
	Cancel(handle Handle) bool
}

// Dispatcher fans notifications out through a background queue with bounded
// retries. Enqueue failures are logged, never propagated: notification
// delivery must not decide the fate of the transaction that produced it.
type Dispatcher struct {
	queue  *jobs.Queue
	logger *zap.Logger

	mu      sync.Mutex
	pending map[Handle]*time.Timer
}

// DispatcherConfig tunes queue behaviour.
type DispatcherConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NewDispatcher wires a dispatcher on top of the given sender.
func NewDispatcher(sender Sender, cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		logger:  logger,
		pending: make(map[Handle]*time.Timer),
	}
	d.queue = jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(Message)
		if !ok {
			d.logger.Error("notification job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return sender.Send(ctx, msg)
	}, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return d
}

// Start launches the queue workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop drains workers and drops any still-pending scheduled sends.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	for handle, timer := range d.pending {
		timer.Stop()
		delete(d.pending, handle)
	}
	d.mu.Unlock()
	d.queue.Stop()
}

// Dispatch enqueues a notification for immediate delivery.
func (d *Dispatcher) Dispatch(msg Message) {
	d.enqueue(msg)
}

// DispatchMany enqueues a batch of notifications sharing a subject/template.
func (d *Dispatcher) DispatchMany(msgs []Message) {
	for _, msg := range msgs {
		d.enqueue(msg)
	}
}

// Schedule registers a notification for delivery at the given instant and
// returns a handle that Cancel accepts until the timer fires.
func (d *Dispatcher) Schedule(msg Message, at time.Time) Handle {
	handle := Handle(uuid.NewString())
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	d.mu.Lock()
	d.pending[handle] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.pending, handle)
		d.mu.Unlock()
		d.enqueue(msg)
	})
	d.mu.Unlock()

	return handle
}

// Cancel revokes a scheduled notification. It reports whether the
// notification was still pending.
func (d *Dispatcher) Cancel(handle Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	timer, ok := d.pending[handle]
	if !ok {
		return false
	}
	timer.Stop()
	delete(d.pending, handle)
	return true
}

func (d *Dispatcher) enqueue(msg Message) {
	err := d.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    msg.Template,
		Payload: msg,
	})
	if err != nil {
		d.logger.Error("failed to enqueue notification",
			zap.String("template", msg.Template),
			zap.String("to", msg.To),
			zap.Error(err))
	}
}

// LogSender is the default Sender: it records the notification instead of
// delivering it. Real SMTP delivery plugs in behind the same interface.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a logging sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification dispatched",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template))
	return nil
}
