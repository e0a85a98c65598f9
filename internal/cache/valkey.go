package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ntentasd/occupancy-api/pkg/types"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var _ Cache = (*Valkey)(nil)

type Valkey struct {
	client  *redis.ClusterClient
	metrics *CacheMetrics
}

func NewValkey(addrs []string) *Valkey {
	opts := &redis.ClusterOptions{Addrs: addrs}
	client := redis.NewClusterClient(opts)
	client.Options().DialTimeout = 2 * time.Second
	cm := NewCacheMetrics("valkey")
	return &Valkey{client, cm}
}

func historyKey(sensorID string) string {
	return fmt.Sprintf("predictions:%s", sensorID)
}

func latestReadingKey(sensorID string) string {
	return fmt.Sprintf("reading:%s", sensorID)
}

func (v *Valkey) StoreEntry(sensorID string, entry types.Entry) error {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Millisecond*200,
	)
	defer cancel()

	member, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	_, err = v.client.ZAdd(ctx, historyKey(sensorID), redis.Z{
		Score:  float64(entry.Timestamp.UnixMilli()),
		Member: member,
	}).Result()
	if err != nil {
		return err
	}

	_, err = v.client.Expire(ctx, historyKey(sensorID), time.Hour).Result()
	if err != nil {
		return err
	}

	return nil
}

func (v *Valkey) FetchLast(sensorID string, n int) ([]types.Entry, error) {
	ctx, cancel := context.WithTimeout(
		context.Background(),
		time.Millisecond*100,
	)
	defer cancel()

	start := time.Now()
	members, err := v.client.ZRevRange(ctx, historyKey(sensorID), 0, int64(n-1)).
		Result()
	if err != nil {
		return nil, err
	}
	v.metrics.RecordHit(start)

	ret := make([]types.Entry, 0, len(members))

	for _, m := range members {
		var entry types.Entry
		if err := json.Unmarshal([]byte(m), &entry); err != nil {
			return nil, fmt.Errorf("failed to parse entry: %w", err)
		}
		ret = append(ret, entry)
	}

	return ret, nil
}

func (v *Valkey) StoreLatestReading(ctx context.Context, sensorID string, reading types.SensorReading) error {
	ctx, span := otel.Tracer("occupancy-cache").Start(ctx, "cache.StoreLatestReading")
	defer span.End()

	span.SetAttributes(
		attribute.String("cache.driver", "valkey"),
		attribute.String("cache.sensor_id", sensorID),
	)

	ctx, cancel := context.WithTimeout(
		ctx,
		time.Millisecond*200,
	)
	defer cancel()

	b, err := json.Marshal(reading)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	start := time.Now()
	if err := v.client.Set(ctx, latestReadingKey(sensorID), b, time.Hour).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to store reading: %w", err)
	}
	v.metrics.RecordWrite(start)
	span.SetStatus(codes.Ok, "")

	return nil
}

func (v *Valkey) FetchLatestReading(ctx context.Context, sensorID string) (*types.SensorReading, error) {
	ctx, span := otel.Tracer("occupancy-cache").Start(ctx, "cache.FetchLatestReading")
	defer span.End()

	span.SetAttributes(
		attribute.String("cache.driver", "valkey"),
		attribute.String("cache.sensor_id", sensorID),
	)

	ctx, cancel := context.WithTimeout(
		ctx,
		time.Millisecond*100,
	)
	defer cancel()

	start := time.Now()
	val, err := v.client.Get(ctx, latestReadingKey(sensorID)).Bytes()
	switch {
	case err == redis.Nil:
		v.metrics.RecordMiss()
		span.SetAttributes(attribute.String("cache.result", "miss"))
		span.SetStatus(codes.Ok, "")
		return nil, nil
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("cache fetch: %w", err)
	default:
		v.metrics.RecordHit(start)
		span.SetAttributes(attribute.String("cache.result", "hit"))
		span.SetStatus(codes.Ok, "")

		var reading types.SensorReading
		if err := json.Unmarshal(val, &reading); err != nil {
			return nil, fmt.Errorf("failed to parse cached reading: %w", err)
		}
		return &reading, nil
	}
}

func (v *Valkey) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *Valkey) Close() {
	v.client.Close()
}
