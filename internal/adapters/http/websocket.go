package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/golfkart/golfkart/internal/adapters/nats"
	"github.com/golfkart/golfkart/internal/pkg/metrics"
)

// wsMessage narrows or widens the weather feed of a connection.
// {"action":"subscribe","course":"oslo-golfklubb"}; an empty course means all.
type wsMessage struct {
	Action string `json:"action"` // subscribe | unsubscribe
	Course string `json:"course"`
}

// courseSlugPattern keeps NATS tokens and wildcards out of per-course subjects.
var courseSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,199}$`)

var errInvalidCourse = errors.New("invalid course slug")

func weatherSubject(course string) (string, error) {
	if course == "" {
		return natsadapter.SubjectWeatherUpdated + ".>", nil
	}
	if !courseSlugPattern.MatchString(course) {
		return "", errInvalidCourse
	}
	return natsadapter.SubjectWeatherUpdated + "." + course, nil
}

type unsubscriber interface {
	Unsubscribe() error
}

// weatherFeed tracks the subjects one connection listens on. The all-courses
// subject and per-course subjects are mutually exclusive, so no update is
// delivered twice.
type weatherFeed struct {
	subscribe func(subject string) (unsubscriber, error)
	subs      map[string]unsubscriber
}

func newWeatherFeed(subscribe func(subject string) (unsubscriber, error)) *weatherFeed {
	return &weatherFeed{subscribe: subscribe, subs: make(map[string]unsubscriber)}
}

// handle applies one client message and returns the reply to send.
func (f *weatherFeed) handle(m wsMessage) map[string]string {
	subject, err := weatherSubject(m.Course)
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	all, _ := weatherSubject("")

	switch m.Action {
	case "subscribe":
		if _, ok := f.subs[subject]; ok {
			return map[string]string{"status": "already subscribed", "subject": subject}
		}
		s, err := f.subscribe(subject)
		if err != nil {
			return map[string]string{"error": "subscribe failed: " + err.Error()}
		}
		if subject == all {
			f.close()
		} else {
			f.drop(all)
		}
		f.subs[subject] = s
		return map[string]string{"status": "subscribed", "subject": subject}

	case "unsubscribe":
		if _, ok := f.subs[subject]; !ok {
			return map[string]string{"error": "not subscribed to " + subject}
		}
		f.drop(subject)
		return map[string]string{"status": "unsubscribed", "subject": subject}

	default:
		return map[string]string{"error": "unknown action: " + m.Action}
	}
}

func (f *weatherFeed) drop(subject string) {
	if s, ok := f.subs[subject]; ok {
		_ = s.Unsubscribe()
		delete(f.subs, subject)
	}
}

func (f *weatherFeed) close() {
	for subject := range f.subs {
		f.drop(subject)
	}
}

// WebSocketHandler relays weather updates from NATS to a connected client.
// New connections start subscribed to every course.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remote := c.RemoteAddr().String()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		slog.Debug("ws client connected", "remote", remote)

		var mu sync.Mutex
		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) {
			_ = writeJSON(json.RawMessage(msg.Data))
		}

		feed := newWeatherFeed(func(subject string) (unsubscriber, error) {
			return nc.Subscribe(subject, relay)
		})
		defer feed.close()

		if reply := feed.handle(wsMessage{Action: "subscribe"}); reply["error"] != "" {
			slog.Warn("ws default subscribe failed", "error", reply["error"])
			return
		}

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			_ = writeJSON(feed.handle(m))
		}

		slog.Debug("ws client disconnected", "remote", remote)
	}
}
