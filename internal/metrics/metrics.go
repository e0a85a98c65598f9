// Package metrics
package metrics

const OccupancyNamespace = "occupancy"
