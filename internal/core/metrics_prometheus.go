package core

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"travelcore/pkg/domain"
)

// PrometheusMetricsRecorder exports operation histograms and per-node
// convergence gauges to a Prometheus registerer.
type PrometheusMetricsRecorder struct {
	durations  *prometheus.HistogramVec
	passes     prometheus.Counter
	overload   *prometheus.GaugeVec
	difference *prometheus.GaugeVec
	overloaded *prometheus.GaugeVec
	meanPrice  *prometheus.GaugeVec
}

// NewPrometheusMetricsRecorder creates the collectors and registers them with
// reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &PrometheusMetricsRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "travelcore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of travelcore operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "travelcore",
			Name:      "shadow_price_passes_total",
			Help:      "Completed shadow-price convergence passes.",
		}),
		overload:   nodeGauge("park_and_ride_max_overload", "Largest per-minute load above capacity in the last pass."),
		difference: nodeGauge("shadow_price_max_abs_difference", "Largest absolute shadow price adjustment in the last pass."),
		overloaded: nodeGauge("park_and_ride_overloaded_minutes", "Minutes with load above capacity in the last pass."),
		meanPrice:  nodeGauge("shadow_price_mean", "Mean shadow price over the day after the last pass."),
	}
	for _, c := range []prometheus.Collector{r.durations, r.passes, r.overload, r.difference, r.overloaded, r.meanPrice} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func nodeGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "travelcore",
		Name:      name,
		Help:      help,
	}, []string{"node"})
}

// Observe records an operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// ObservePass updates the per-node gauges.
func (r *PrometheusMetricsRecorder) ObservePass(_ context.Context, summaries []domain.PassSummary) {
	r.passes.Inc()
	for _, s := range summaries {
		node := strconv.Itoa(s.NodeID)
		r.overload.WithLabelValues(node).Set(s.MaxOverload)
		r.difference.WithLabelValues(node).Set(s.MaxAbsDifference)
		r.overloaded.WithLabelValues(node).Set(float64(s.OverloadedMinutes))
		r.meanPrice.WithLabelValues(node).Set(s.MeanShadowPrice)
	}
}
