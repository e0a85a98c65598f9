package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/ntentasd/occupancy-api/internal/metrics"
	"github.com/ntentasd/occupancy-api/pkg/types"
)

var ErrSensorNotFound = errors.New("sensor not found")

// StorePrediction persists a served prediction for a sensor.
func (db *DB) StorePrediction(sensorID string, entry types.Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	sid, err := gocql.ParseUUID(sensorID)
	if err != nil {
		return fmt.Errorf("invalid sensor_id: %w", err)
	}

	start := time.Now()
	query := db.Sess.Query(`
INSERT INTO predictions (sensor_id, bucket_date, timestamp, label, probability)
VALUES (?, ?, ?, ?, ?)
`, sid, bucketDate(entry.Timestamp), entry.Timestamp, entry.Label, entry.Probability).
		WithContext(ctx)

	if err := query.Exec(); err != nil {
		return fmt.Errorf("failed to store prediction: %w", err)
	}
	metrics.DbWriteLatencySeconds.WithLabelValues("store_prediction").Observe(time.Since(start).Seconds())

	return nil
}

// GetRecentPredictions returns the latest N prediction entries for a sensor
// within a bucket date, newest first.
func (db *DB) GetRecentPredictions(sensorID string, date string, n int) ([]types.Entry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	sid, err := gocql.ParseUUID(sensorID)
	if err != nil {
		return nil, fmt.Errorf("invalid sensor_id: %w", err)
	}

	start := time.Now()
	query := db.Sess.Query(`
SELECT timestamp, label, probability
FROM predictions
WHERE sensor_id = ? AND bucket_date = ?
ORDER BY timestamp DESC LIMIT ?
`, sid, date, n).WithContext(ctx)

	var results []types.Entry
	iter := query.Iter()

	var ts time.Time
	var label string
	var probability *float64

	for iter.Scan(&ts, &label, &probability) {
		results = append(results, types.Entry{
			Timestamp:   ts,
			Label:       label,
			Probability: probability,
		})
		probability = nil
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	metrics.DbReadLatencySeconds.WithLabelValues("recent_predictions").Observe(time.Since(start).Seconds())

	return results, nil
}
