package notify

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/okwaro/sokopesa/internal/pkg/logger"
	natspkg "github.com/okwaro/sokopesa/internal/pkg/nats"
	"github.com/sirupsen/logrus"
)

// LogSink mirrors each notification into the structured log.
type LogSink struct {
	log *logger.AppLogger
}

// NewLogSink creates a sink writing to the given logger
func NewLogSink(log *logger.AppLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Surface(n Notification) {
	entry := s.log.WithFields(logrus.Fields{
		"notification_id": n.ID,
		"kind":            string(n.Kind),
		"title":           n.Title,
	})
	switch n.Kind {
	case KindError:
		entry.Error(n.Message)
	case KindWarning:
		entry.Warn(n.Message)
	case KindSuccess, KindInfo:
		entry.Info(n.Message)
	}
}

// fanoutEvent is the wire envelope for cross-instance toast fan-out. The
// origin lets a subscriber drop its own events, since NATS delivers a
// publication back to every subscriber on the subject.
type fanoutEvent struct {
	Origin       string       `json:"origin"`
	Notification Notification `json:"notification"`
}

// NATSSink fans toast events out to other edge instances so a user's
// connected clients all see the toast regardless of which instance handled
// the mutation.
type NATSSink struct {
	client  *natspkg.Client
	subject string
	origin  string
}

// NewNATSSink creates a sink publishing to the given subject
func NewNATSSink(client *natspkg.Client, subject string) *NATSSink {
	return &NATSSink{client: client, subject: subject, origin: uuid.New().String()}
}

func (s *NATSSink) Surface(n Notification) {
	if err := s.client.PublishJSON(s.subject, fanoutEvent{Origin: s.origin, Notification: n}); err != nil {
		logger.L().WithError(err).Warn("failed to publish notification")
	}
}

// Relay subscribes to the fan-out subject and surfaces events published by
// other instances on local, skipping the ones this sink published itself.
func (s *NATSSink) Relay(local Sink) error {
	_, err := s.client.Subscribe(s.subject, func(msg *nats.Msg) {
		var ev fanoutEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.L().WithError(err).Warn("undecodable fan-out event dropped")
			return
		}
		if ev.Origin == s.origin {
			return
		}
		local.Surface(ev.Notification)
	})
	return err
}
