// Package events records domain lifecycle events as structured logs and
// Prometheus counters. Recording is best-effort and never returns an error
// to the caller.
package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Domain event names.
const (
	SlotCreated        = "slot_created"
	RoundInitiated     = "round_initiated"
	InterviewConfirmed = "interview_confirmed"
	InterviewRejected  = "interview_rejected"
	FeedbackFinalized  = "feedback_finalized"
	BillingPosted      = "billing_posted"
)

// Recorder emits domain events.
type Recorder struct {
	logger  *zap.Logger
	counter *prometheus.CounterVec
}

// NewRecorder registers the event counter on the given registry. A nil
// registry disables metrics, a nil logger disables logging.
func NewRecorder(logger *zap.Logger, registry *prometheus.Registry) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_domain_events_total",
		Help: "Total domain events by name",
	}, []string{"event"})
	if registry != nil {
		registry.MustRegister(counter)
	}
	return &Recorder{logger: logger, counter: counter}
}

// Record emits one event with structured context. A nil recorder is a no-op.
func (r *Recorder) Record(event string, fields ...zap.Field) {
	if r == nil {
		return
	}
	r.counter.WithLabelValues(event).Inc()
	r.logger.Info("domain event", append([]zap.Field{zap.String("event", event)}, fields...)...)
}
