package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chartboost/mediation-dtexchange-go/errortypes"
)

// PrometheusEngine exports adapter outcomes through a prometheus registry.
type PrometheusEngine struct {
	Registry *prometheus.Registry

	setups      *prometheus.CounterVec
	loads       *prometheus.CounterVec
	loadTimer   *prometheus.HistogramVec
	shows       *prometheus.CounterVec
	invalidates *prometheus.CounterVec
}

const (
	outcomeLabel = "outcome"
	formatLabel  = "format"
)

// NewPrometheusEngine builds the engine and registers its collectors.
func NewPrometheusEngine() *PrometheusEngine {
	engine := &PrometheusEngine{
		Registry: prometheus.NewRegistry(),
		setups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dtexchange_adapter",
			Name:      "setups_total",
			Help:      "Count of partner setup attempts by outcome.",
		}, []string{outcomeLabel}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dtexchange_adapter",
			Name:      "loads_total",
			Help:      "Count of ad loads by format and outcome.",
		}, []string{formatLabel, outcomeLabel}),
		loadTimer: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dtexchange_adapter",
			Name:      "load_duration_seconds",
			Help:      "Seconds spent waiting on the exchange per load.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{formatLabel}),
		shows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dtexchange_adapter",
			Name:      "shows_total",
			Help:      "Count of show attempts by format and outcome.",
		}, []string{formatLabel, outcomeLabel}),
		invalidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dtexchange_adapter",
			Name:      "invalidates_total",
			Help:      "Count of invalidate attempts by outcome.",
		}, []string{outcomeLabel}),
	}

	engine.Registry.MustRegister(
		engine.setups,
		engine.loads,
		engine.loadTimer,
		engine.shows,
		engine.invalidates,
	)
	return engine
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strconv.Itoa(errortypes.ReadCode(err))
}

func (e *PrometheusEngine) RecordSetup(err error) {
	e.setups.With(prometheus.Labels{outcomeLabel: outcome(err)}).Inc()
}

func (e *PrometheusEngine) RecordLoad(format string, duration time.Duration, err error) {
	e.loads.With(prometheus.Labels{formatLabel: format, outcomeLabel: outcome(err)}).Inc()
	e.loadTimer.With(prometheus.Labels{formatLabel: format}).Observe(duration.Seconds())
}

func (e *PrometheusEngine) RecordShow(format string, err error) {
	e.shows.With(prometheus.Labels{formatLabel: format, outcomeLabel: outcome(err)}).Inc()
}

func (e *PrometheusEngine) RecordInvalidate(err error) {
	e.invalidates.With(prometheus.Labels{outcomeLabel: outcome(err)}).Inc()
}
