// Package events publishes reservation lifecycle events over NATS.
// Publishing is optional; the service runs fully without it.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// PublisherMetrics receives publish outcomes and connection state.
type PublisherMetrics interface {
	PublishedInc()
	PublishErrInc()
	SetConnected(connected bool)
}

// ReservationEvent is the payload published for every reservation
// confirmation or cancellation.
type ReservationEvent struct {
	ID            string    `json:"id"`
	SlotTime      string    `json:"slotTime"`
	SlotLabel     string    `json:"slotLabel"`
	HomeStop      string    `json:"homeStop"`
	BusAssignment string    `json:"busAssignment"`
	Status        string    `json:"status"`
	ServiceDay    string    `json:"serviceDay"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher sends reservation events to NATS.
type Publisher struct {
	nc      *nats.Conn
	logger  *slog.Logger
	metrics PublisherMetrics
}

// NewPublisher connects to the NATS server at url. Connection state
// transitions are reported to the metrics sink.
func NewPublisher(url string, logger *slog.Logger, m PublisherMetrics) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("nightshuttle"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(false)
			}
			logger.Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(true)
			}
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.SetConnected(false)
			}
			logger.Info("nats connection closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.SetConnected(true)
	}
	return &Publisher{nc: nc, logger: logger, metrics: m}, nil
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	_ = p.nc.Drain()
	p.nc.Close()
}

// PublishReservation publishes the event on
// "nightshuttle.reservations.<status>". A nil Publisher is a no-op, so
// callers never need to branch on whether events are enabled.
func (p *Publisher) PublishReservation(ev ReservationEvent) error {
	if p == nil || p.nc == nil {
		return nil
	}

	subject := fmt.Sprintf("nightshuttle.reservations.%s", subjectToken(strings.ToLower(ev.Status)))
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	err = p.nc.Publish(subject, payload)
	if p.metrics != nil {
		if err != nil {
			p.metrics.PublishErrInc()
		} else {
			p.metrics.PublishedInc()
		}
	}
	if err != nil {
		p.logger.Error("failed to publish reservation event", "subject", subject, "error", err)
	}
	return err
}

// subjectToken sanitizes a string for use as a NATS subject token.
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
