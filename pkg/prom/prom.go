package prom

import "github.com/prometheus/client_golang/prometheus"

// prediction outcomes, one per terminal state of a predict request
const (
	OutcomeSucceeded   = "succeeded"
	OutcomeRejected    = "rejected"
	OutcomeFailed      = "failed"
	OutcomeUnavailable = "unavailable"
)

var Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "predictor_http_requests_total",
	Help: "HTTP requests by route and status code",
}, []string{"route", "code"})

var Predictions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "predictor_predictions_total",
	Help: "Predict requests by outcome",
}, []string{"outcome"})

var PredictedLabels = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "predictor_predicted_label_total",
	Help: "Successful predictions by returned label",
}, []string{"label"})

var InferenceSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "predictor_inference_duration_seconds",
	Help:    "Time spent inside the model for one prediction",
	Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
})

var ModelLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "predictor_model_loaded",
	Help: "1 when the model artifact was loaded at startup",
})

var MetricsAvailable = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "predictor_metrics_available",
	Help: "1 when the model metrics record was loaded at startup",
})

// registered on import, before any route is defined
func init() {
	_ = prometheus.Register(Requests)
	_ = prometheus.Register(Predictions)
	_ = prometheus.Register(PredictedLabels)
	_ = prometheus.Register(InferenceSeconds)
	_ = prometheus.Register(ModelLoaded)
	_ = prometheus.Register(MetricsAvailable)
}

// Bool converts a flag to a gauge value.
func Bool(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
