package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeSubmissions delivers queued contact messages and reviews to
// handler. Failed deliveries are redelivered up to five times; undecodable
// messages are terminated.
func (s *Subscriber) SubscribeSubmissions(ctx context.Context, handler func(ctx context.Context, sub *domain.Submission) error) error {
	sub, err := s.js.Subscribe(SubjectSubmissions+".>", func(msg *nats.Msg) {
		var submission domain.Submission
		if err := json.Unmarshal(msg.Data, &submission); err != nil {
			slog.Error("undecodable submission", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &submission); err != nil {
			slog.Warn("submission handler failed", "id", submission.ID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("submission-mailer"),
		nats.ManualAck(),
		nats.MaxDeliver(5),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
