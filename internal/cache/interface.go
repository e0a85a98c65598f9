package cache

import (
	"context"

	"github.com/ntentasd/occupancy-api/pkg/types"
)

// Cache defines the general caching for the api.
// It abstracts per-sensor prediction history (ZSET) and latest-reading
// key-values (SET).
type Cache interface {
	// StoreEntry appends a prediction entry to a sensor's history
	StoreEntry(sensorID string, entry types.Entry) error

	// FetchLast retrieves the N most recent prediction entries for a sensor
	FetchLast(sensorID string, n int) ([]types.Entry, error)

	// StoreLatestReading caches the most recent raw reading for a sensor,
	// used as the predecessor for delta features on streamed readings
	StoreLatestReading(ctx context.Context, sensorID string, reading types.SensorReading) error

	// FetchLatestReading retrieves a sensor's most recent raw reading
	FetchLatestReading(ctx context.Context, sensorID string) (*types.SensorReading, error)

	// Ping checks cache connection
	Ping(ctx context.Context) error

	// Close gracefully closes any connections
	Close()
}
