// Package notify delivers user notifications. Production publishes them to a
// Kafka topic consumed by the notification front end; without brokers they are
// written to the log.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"corpstats/internal/corpstats/models"
	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	"corpstats/pkg/requestcontext"
)

// Producer is the subset of *kgo.Client the notifier needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Message is the payload published for each notification.
type Message struct {
	ID        uuid.UUID `json:"id"`
	UserID    id.UserID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// KafkaNotifier publishes notifications keyed by user so one user's
// notifications stay ordered.
type KafkaNotifier struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

var _ ports.Notifier = (*KafkaNotifier)(nil)

func NewKafka(producer Producer, topic string, logger *slog.Logger) *KafkaNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaNotifier{producer: producer, topic: topic, logger: logger}
}

func (n *KafkaNotifier) Notify(ctx context.Context, userID id.UserID, note models.Notification) error {
	msg := newMessage(ctx, userID, note)
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(strconv.FormatInt(int64(userID), 10)),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "notification_id", Value: []byte(msg.ID.String())},
		},
	}
	if err := n.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish notification to %s: %w", n.topic, err)
	}
	n.logger.DebugContext(ctx, "notification published", "user_id", userID, "notification_id", msg.ID)
	return nil
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLog(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, userID id.UserID, note models.Notification) error {
	msg := newMessage(ctx, userID, note)
	n.logger.InfoContext(ctx, "notification",
		"notification_id", msg.ID,
		"user_id", userID,
		"notification_level", msg.Level,
		"title", msg.Title,
		"message", msg.Message,
	)
	return nil
}

func newMessage(ctx context.Context, userID id.UserID, note models.Notification) Message {
	level := note.Level
	if level == "" {
		level = "info"
	}
	return Message{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     note.Title,
		Message:   note.Message,
		Level:     level,
		CreatedAt: requestcontext.Now(ctx),
	}
}
