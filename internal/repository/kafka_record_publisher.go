package repository

import (
	"context"
	"fmt"

	"IBPulse/internal/domain/models"
	domrepo "IBPulse/internal/domain/repository"
	pkgkafka "IBPulse/pkg/kafka"
	applogger "IBPulse/pkg/logger"
)

// KafkaRecordPublisher implements MetricsSink by publishing finished
// daily records to a Kafka topic, keyed by symbol so downstream
// consumers see each instrument in order.
type KafkaRecordPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaRecordPublisher(producer *pkgkafka.Producer, topic string) *KafkaRecordPublisher {
	return &KafkaRecordPublisher{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (p *KafkaRecordPublisher) SetLogger(l *applogger.Logger) { p.l = l }

type recordEnvelope struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	*models.DailyMetricsRecord
}

func (p *KafkaRecordPublisher) Store(ctx context.Context, rec *models.DailyMetricsRecord) error {
	env := recordEnvelope{
		Symbol:             rec.Symbol,
		Date:               rec.Date.Format("2006-01-02"),
		DailyMetricsRecord: rec,
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(rec.Symbol), env); err != nil {
		if p.l != nil {
			p.l.Error("kafka publish record error",
				applogger.String("topic", p.topic),
				applogger.String("symbol", rec.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish record: %w", err)
	}
	return nil
}

// PublishMessage lets the log collector flush aggregated entries
// through the same producer.
func (p *KafkaRecordPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaRecordPublisher) Close() error {
	return p.producer.Close()
}

// FanOutSink forwards each record to every sink in order and stops on
// the first failure.
type FanOutSink struct {
	sinks []domrepo.MetricsSink
}

func NewFanOutSink(sinks ...domrepo.MetricsSink) *FanOutSink {
	return &FanOutSink{sinks: sinks}
}

func (f *FanOutSink) Store(ctx context.Context, rec *models.DailyMetricsRecord) error {
	for _, s := range f.sinks {
		if err := s.Store(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
