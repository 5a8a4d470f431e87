package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/seasonal-produce/internal/config"
	"github.com/couchcryptid/seasonal-produce/internal/domain"
)

// Writer publishes season tables to a Kafka topic, one message per region
// and month. It implements pipeline.TableLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// BucketMessage is the value of one published message.
type BucketMessage struct {
	Region    string               `json:"region"`
	Month     int                  `json:"month"`
	MonthName string               `json:"month_name"`
	Items     []domain.ProduceItem `json:"items"`
}

// NewWriter creates a Kafka producer for the configured table topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTableTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the loader in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// LoadTable publishes every month bucket of every region in a single
// WriteMessages call. Keys are "<region>:<month>", so a compacted topic keeps
// the latest bucket per key.
func (w *Writer) LoadTable(ctx context.Context, table domain.SeasonTable) error {
	msgs, err := serializeTable(table, domain.Now())
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish season table: %w", err)
	}
	w.logger.Info("season table published", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeTable builds the messages for table in region then month order.
func serializeTable(table domain.SeasonTable, builtAt time.Time) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(table)*domain.MonthsPerYear)
	for _, region := range table.Regions() {
		for month := range domain.MonthsPerYear {
			items, err := table.Bucket(region, month)
			if err != nil {
				return nil, err
			}
			msg, err := serializeToMessage(region, month, items, builtAt)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// serializeToMessage marshals one month bucket into a Kafka message.
func serializeToMessage(region string, month int, items []domain.ProduceItem, builtAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(BucketMessage{
		Region:    region,
		Month:     month,
		MonthName: domain.MonthName(month),
		Items:     items,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s month %d: %w", region, month, err)
	}
	return kafkago.Message{
		Key:   []byte(region + ":" + strconv.Itoa(month)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(region)},
			{Key: "month", Value: []byte(strconv.Itoa(month))},
			{Key: "built_at", Value: []byte(builtAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
