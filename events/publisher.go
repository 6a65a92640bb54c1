// Package events publishes workflow lifecycle events to NATS. Publishing is
// optional: a nil Publisher is a safe no-op, so the engine runs unchanged
// when no NATS server is configured.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Event names published over the run lifecycle.
const (
	EventStarted   = "started"
	EventCompleted = "completed"
	EventFailed    = "failed"
)

// conn is the subset of nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher emits workflow events on subjects of the form
// <prefix>.workflow.<workflow_id>.<event>.
type Publisher struct {
	conn          conn
	subjectPrefix string
	logger        *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the publisher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// Connect dials the NATS server and returns a publisher. An empty URL returns
// a nil publisher, which every method treats as a no-op.
func Connect(url, subjectPrefix string, opts ...Option) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return newPublisher(nc, subjectPrefix, opts...), nil
}

func newPublisher(nc conn, subjectPrefix string, opts ...Option) *Publisher {
	if subjectPrefix == "" {
		subjectPrefix = "content"
	}
	p := &Publisher{
		conn:          nc,
		subjectPrefix: subjectPrefix,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// payload is the wire shape of every workflow event.
type payload struct {
	WorkflowID string    `json:"workflow_id"`
	Event      string    `json:"event"`
	Topic      string    `json:"topic,omitempty"`
	Goal       string    `json:"goal,omitempty"`
	Score      int       `json:"quality_score,omitempty"`
	Revisions  int       `json:"revision_count,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RunStarted announces that a workflow run has begun.
func (p *Publisher) RunStarted(workflowID, topic, goal string) {
	p.publish(workflowID, EventStarted, payload{Topic: topic, Goal: goal})
}

// RunCompleted announces a successful run with its final quality metrics.
func (p *Publisher) RunCompleted(workflowID, topic string, score, revisions int) {
	p.publish(workflowID, EventCompleted, payload{Topic: topic, Score: score, Revisions: revisions})
}

// RunFailed announces a failed run.
func (p *Publisher) RunFailed(workflowID, topic, errMessage string) {
	p.publish(workflowID, EventFailed, payload{Topic: topic, Error: errMessage})
}

// Close drains the connection. Safe on a nil publisher.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("drain NATS connection failed", "error", err)
	}
}

func (p *Publisher) publish(workflowID, event string, body payload) {
	if p == nil || p.conn == nil {
		return
	}

	body.WorkflowID = workflowID
	body.Event = event
	body.Timestamp = time.Now().UTC()

	data, err := json.Marshal(body)
	if err != nil {
		p.logger.Warn("marshal event failed", "event", event, "error", err)
		return
	}

	subject := fmt.Sprintf("%s.workflow.%s.%s", p.subjectPrefix, workflowID, event)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("publish event failed", "subject", subject, "error", err)
		return
	}
	p.logger.Debug("event published", "subject", subject)
}
