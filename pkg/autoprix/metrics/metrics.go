package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/predict"
)

// PromRecorder records prediction outcomes in Prometheus metrics.
type PromRecorder struct {
	predictions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	estimates   *prometheus.HistogramVec
}

// NewPromRecorder registers the prediction collectors on reg. If reg is nil
// the default registerer is used. Collectors already registered are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autoprix_predictions_total",
		Help: "Total number of prediction requests by outcome",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autoprix_prediction_duration_seconds",
		Help:    "Time spent validating, encoding and predicting a request",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	estimates := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autoprix_variant_estimate",
		Help:    "Rounded price estimates per model variant",
		Buckets: prometheus.ExponentialBuckets(10000, 2, 10),
	}, []string{"variant"})

	var err error
	if predictions, err = register(reg, predictions); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if estimates, err = register(reg, estimates); err != nil {
		return nil, err
	}
	return &PromRecorder{predictions: predictions, duration: duration, estimates: estimates}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObservePrediction counts a request and records its duration.
func (r *PromRecorder) ObservePrediction(outcome predict.Outcome, d time.Duration) {
	r.predictions.WithLabelValues(string(outcome)).Inc()
	r.duration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

// ObserveEstimate records the rounded estimate of one variant.
func (r *PromRecorder) ObserveEstimate(variant string, price float64) {
	r.estimates.WithLabelValues(variant).Observe(price)
}
