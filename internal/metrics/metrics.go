package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                 *prometheus.Registry
	Transitions         prometheus.Counter
	TransitionsRejected prometheus.Counter
	Reorders            prometheus.Counter
	ReorderLatencySec   prometheus.Histogram
	OptimisticRollbacks prometheus.Counter
	MovementsApplied    prometheus.Counter
	ReconcileRuns       prometheus.Counter
	CriticalIngredients prometheus.Gauge
	ColumnSize          *prometheus.GaugeVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	transitions := prometheus.NewCounter(prometheus.CounterOpts{Name: "board_transitions_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "board_transitions_rejected_total"})
	reorders := prometheus.NewCounter(prometheus.CounterOpts{Name: "board_reorders_total"})
	reorderLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "board_reorder_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})
	rollbacks := prometheus.NewCounter(prometheus.CounterOpts{Name: "board_optimistic_rollbacks_total"})
	movements := prometheus.NewCounter(prometheus.CounterOpts{Name: "stock_movements_applied_total"})
	reconcileRuns := prometheus.NewCounter(prometheus.CounterOpts{Name: "stock_reconcile_runs_total"})
	critical := prometheus.NewGauge(prometheus.GaugeOpts{Name: "stock_critical_ingredients"})
	columnSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "board_column_orders"}, []string{"status"})

	r.MustRegister(transitions, rejected, reorders, reorderLatency, rollbacks, movements, reconcileRuns, critical, columnSize)
	return &Registry{
		reg:                 r,
		Transitions:         transitions,
		TransitionsRejected: rejected,
		Reorders:            reorders,
		ReorderLatencySec:   reorderLatency,
		OptimisticRollbacks: rollbacks,
		MovementsApplied:    movements,
		ReconcileRuns:       reconcileRuns,
		CriticalIngredients: critical,
		ColumnSize:          columnSize,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
