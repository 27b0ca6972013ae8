// Package events mirrors incident change events onto NATS for backend
// consumers that cannot hold a WebSocket open. Entirely optional: a nil
// Publisher no-ops.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subject prefix for incident change events, e.g. incidents.created.
const subjectPrefix = "incidents."

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Connect dials NATS with retry-friendly options. token may be empty.
func Connect(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc, logger: logger}, nil
}

// PublishChange mirrors one change event. verb is created, updated or deleted.
// Failures are logged, never propagated: the WebSocket broadcast is the
// primary channel and must not depend on the mirror.
func (p *Publisher) PublishChange(verb string, event map[string]any) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("marshal change event", "error", err)
		return
	}
	if err := p.conn.Publish(subjectPrefix+verb, payload); err != nil {
		p.logger.Warn("publish change event", "verb", verb, "error", err)
	}
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.conn.Close()
}
