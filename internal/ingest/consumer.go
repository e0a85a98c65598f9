// Package ingest consumes streamed sensor readings from Kafka and runs them
// through the prediction service, persisting both the reading and the result.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/ntentasd/occupancy-api/internal/cache"
	"github.com/ntentasd/occupancy-api/internal/db"
	"github.com/ntentasd/occupancy-api/internal/metrics"
	"github.com/ntentasd/occupancy-api/internal/occupancy"
	"github.com/ntentasd/occupancy-api/pkg/types"
	"github.com/rs/zerolog"
)

const (
	Topic         = "occupancy_readings"
	consumerGroup = "occupancy-api"
)

// ReadingMessage is the wire format published by sensor gateways.
type ReadingMessage struct {
	SensorID string `json:"sensor_id"`
	types.PredictRequest
}

type Consumer struct {
	brokers []string
	svc     *occupancy.Service
	store   *db.DB
	cache   cache.Cache
	logger  zerolog.Logger
}

func NewConsumer(brokers []string, svc *occupancy.Service, store *db.DB, c cache.Cache, logger zerolog.Logger) *Consumer {
	return &Consumer{
		brokers: brokers,
		svc:     svc,
		store:   store,
		cache:   c,
		logger:  logger,
	}
}

// Run consumes the readings topic until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(c.brokers, consumerGroup, cfg)
	if err != nil {
		return fmt.Errorf("kafka client: %w", err)
	}
	defer group.Close()

	handler := &groupHandler{consumer: c}

	for {
		if err := group.Consume(ctx, []string{Topic}, handler); err != nil {
			return fmt.Errorf("consume: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := h.consumer.handle(session.Context(), msg.Value); err != nil {
			metrics.IngestMessagesTotal.WithLabelValues("error").Inc()
			h.consumer.logger.Error().
				Err(err).
				Str("topic", msg.Topic).
				Int64("offset", msg.Offset).
				Msg("failed to handle reading")
		} else {
			metrics.IngestMessagesTotal.WithLabelValues("ok").Inc()
		}
		session.MarkMessage(msg, "")
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, payload []byte) error {
	var msg ReadingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	if msg.SensorID == "" {
		return fmt.Errorf("message missing sensor_id")
	}
	if missing := msg.MissingFields(); len(missing) > 0 {
		return &types.ValidationError{Missing: missing}
	}

	reading, err := msg.ToReading()
	if err != nil {
		return err
	}

	// use the sensor's cached previous reading as the predecessor so delta
	// and rate features reflect real history instead of the zero fill
	batch := []types.SensorReading{reading}
	if prev, err := c.cache.FetchLatestReading(ctx, msg.SensorID); err == nil && prev != nil {
		if prev.Timestamp.Before(reading.Timestamp) {
			batch = []types.SensorReading{*prev, reading}
		}
	}

	results, err := c.svc.PredictReadings(ctx, batch)
	if err != nil {
		return err
	}
	result := results[len(results)-1]

	entry := types.Entry{
		Timestamp:   reading.Timestamp,
		Label:       result.Prediction,
		Probability: result.Probability,
	}

	if err := c.store.StoreReading(msg.SensorID, reading); err != nil {
		return err
	}
	if err := c.store.StorePrediction(msg.SensorID, entry); err != nil {
		return err
	}

	if err := c.cache.StoreLatestReading(ctx, msg.SensorID, reading); err != nil {
		c.logger.Warn().Err(err).Str("sensor_id", msg.SensorID).Msg("failed to cache reading")
	}
	if err := c.cache.StoreEntry(msg.SensorID, entry); err != nil {
		c.logger.Warn().Err(err).Str("sensor_id", msg.SensorID).Msg("failed to cache prediction")
	}

	c.logger.Debug().
		Str("sensor_id", msg.SensorID).
		Str("label", result.Prediction).
		Time("timestamp", reading.Timestamp).
		Msg("prediction stored")

	return nil
}
