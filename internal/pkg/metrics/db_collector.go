package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordDBPoolMetrics snapshots the pgx pool gauges. Called on a timer
// from the app rather than via a prometheus.Collector so the pool never
// blocks a scrape.
func RecordDBPoolMetrics(pool *pgxpool.Pool) {
	stats := pool.Stat()

	for state, value := range map[string]int32{
		"in_use": stats.AcquiredConns(),
		"idle":   stats.IdleConns(),
		"max":    stats.MaxConns(),
	} {
		DBPoolConnections.WithLabelValues(state).Set(float64(value))
	}
}
