package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tidyfold/src/sorting"
)

// Collector holds the Prometheus instruments for the organizer.
type Collector struct {
	moves         *prometheus.CounterVec
	moveErrors    prometheus.Counter
	watcherActive prometheus.Gauge
}

// NewCollector registers the organizer metrics with the given registry.
func NewCollector(registry *prometheus.Registry) *Collector {
	factory := promauto.With(registry)
	return &Collector{
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tidyfold_moves_total",
			Help: "Number of files moved, per category.",
		}, []string{"category"}),
		moveErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "tidyfold_move_errors_total",
			Help: "Number of failed move attempts.",
		}),
		watcherActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tidyfold_watcher_active",
			Help: "Whether a folder watcher session is active.",
		}),
	}
}

// RecordMove counts one successful move.
func (c *Collector) RecordMove(event sorting.MoveEvent) {
	c.moves.WithLabelValues(event.Category).Inc()
}

// RecordMoveError counts one failed move attempt.
func (c *Collector) RecordMoveError() {
	c.moveErrors.Inc()
}

// SetWatcherActive flags whether a watcher session is running.
func (c *Collector) SetWatcherActive(active bool) {
	if active {
		c.watcherActive.Set(1)
	} else {
		c.watcherActive.Set(0)
	}
}
