// Package events publishes transaction lifecycle events for downstream
// consumers (mailers, dashboards).
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// TransactionEvent is the payload published when a payment record reaches a
// terminal state.
type TransactionEvent struct {
	BillNo     string    `json:"bill_no"`
	StudentID  uint      `json:"student_id"`
	CourseID   uint      `json:"course_id"`
	Status     string    `json:"status"`
	NetPayable float64   `json:"net_payable"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits domain events over NATS. A nil publisher or a publisher
// without a connection is a no-op, so event delivery never blocks the
// payment flow.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewPublisher constructs a publisher bound to a subject prefix.
func NewPublisher(conn *nats.Conn, subjectPrefix string, logger zerolog.Logger) *Publisher {
	if subjectPrefix == "" {
		subjectPrefix = "cit.transactions"
	}

	return &Publisher{
		conn:    conn,
		subject: subjectPrefix,
		logger:  logger.With().Str("component", "events").Logger(),
	}
}

// TransactionApproved publishes a paid event.
func (p *Publisher) TransactionApproved(event TransactionEvent) {
	p.publish(p.subject+".approved", event)
}

// TransactionRejected publishes a rejected event.
func (p *Publisher) TransactionRejected(event TransactionEvent) {
	p.publish(p.subject+".rejected", event)
}

func (p *Publisher) publish(subject string, event TransactionEvent) {
	if p == nil || p.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to encode transaction event")
		return
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish transaction event")
		return
	}

	p.logger.Debug().Str("subject", subject).Str("bill_no", event.BillNo).Msg("transaction event published")
}
