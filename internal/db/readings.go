package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/ntentasd/occupancy-api/internal/metrics"
	"github.com/ntentasd/occupancy-api/pkg/types"
)

// StoreReading persists a raw sensor reading, bucketed by day.
func (db *DB) StoreReading(sensorID string, reading types.SensorReading) error {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	sid, err := gocql.ParseUUID(sensorID)
	if err != nil {
		return fmt.Errorf("invalid sensor_id: %w", err)
	}

	start := time.Now()
	query := db.Sess.Query(`
INSERT INTO readings (sensor_id, bucket_date, timestamp, temperature, humidity, light, co2, humidity_ratio)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, sid, bucketDate(reading.Timestamp), reading.Timestamp,
		reading.Temperature, reading.Humidity, reading.Light,
		reading.CO2, reading.HumidityRatio).WithContext(ctx)

	if err := query.Exec(); err != nil {
		return fmt.Errorf("failed to store reading: %w", err)
	}
	metrics.DbWriteLatencySeconds.WithLabelValues("store_reading").Observe(time.Since(start).Seconds())

	return nil
}

// GetLastReading returns a sensor's most recent reading for a bucket date,
// or nil when none exists.
func (db *DB) GetLastReading(sensorID string, date string) (*types.SensorReading, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	sid, err := gocql.ParseUUID(sensorID)
	if err != nil {
		return nil, fmt.Errorf("invalid sensor_id: %w", err)
	}

	var reading types.SensorReading

	start := time.Now()
	err = db.Sess.Query(`
SELECT timestamp, temperature, humidity, light, co2, humidity_ratio
FROM readings
WHERE sensor_id = ? AND bucket_date = ?
ORDER BY timestamp DESC LIMIT 1
`, sid, date).WithContext(ctx).Scan(
		&reading.Timestamp, &reading.Temperature, &reading.Humidity,
		&reading.Light, &reading.CO2, &reading.HumidityRatio,
	)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	metrics.DbReadLatencySeconds.WithLabelValues("last_reading").Observe(time.Since(start).Seconds())

	return &reading, nil
}

func bucketDate(ts time.Time) string {
	return ts.UTC().Format("2006-01-02")
}
