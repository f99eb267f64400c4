package repository

import (
	"context"
	"fmt"

	"Condor/internal/domain/models"
	"Condor/pkg/kafka"
)

// KafkaPublisher emits forecast-completed events, keyed by symbol so
// consumers see per-asset ordering.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishForecast(ctx context.Context, ev models.ForecastEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), ev); err != nil {
		return fmt.Errorf("publish forecast event for %s: %w", ev.Symbol, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
