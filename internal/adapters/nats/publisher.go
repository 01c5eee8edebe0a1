package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// Subjects.
const (
	SubjectWeatherUpdated = "golfkart.weather.updated"
	SubjectSubmissions    = "golfkart.submissions"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "COURSE_WEATHER",
			Subjects:  []string{SubjectWeatherUpdated + ".>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:       "SUBMISSIONS",
			Subjects:   []string{SubjectSubmissions + ".>"},
			Retention:  nats.WorkQueuePolicy,
			MaxAge:     7 * 24 * time.Hour,
			Storage:    nats.FileStorage,
			Duplicates: 10 * time.Minute,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishWeatherUpdated announces a new weather snapshot on
// golfkart.weather.updated.<slug>.
func (p *Publisher) PublishWeatherUpdated(ctx context.Context, slug string, w *domain.Weather) error {
	data, err := json.Marshal(domain.WeatherUpdate{Slug: slug, Weather: w})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectWeatherUpdated+"."+slug, data, nats.Context(ctx))
	return err
}

// PublishSubmission queues a submission on golfkart.submissions.<kind>.
// The submission ID doubles as the JetStream message ID.
func (p *Publisher) PublishSubmission(ctx context.Context, s *domain.Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectSubmissions+"."+string(s.Kind), data,
		nats.Context(ctx),
		nats.MsgId(s.ID),
	)
	return err
}

// Connected reports whether the underlying connection is up.
func (p *Publisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("golfkart"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
