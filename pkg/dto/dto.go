package dto

import "github.com/tass-io/predictor/pkg/schema"

// Owner identifies who operates the deployed model.
type Owner struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Lab  string `json:"lab"`
}

type InfoResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Schema    string            `json:"schema"`
	Owner     Owner             `json:"owner"`
	Endpoints map[string]string `json:"endpoints"`
}

type HealthResponse struct {
	Status           string `json:"status"`
	ModelLoaded      bool   `json:"model_loaded"`
	MetricsAvailable bool   `json:"metrics_available"`
}

type MetricsResponse struct {
	Owner        Owner              `json:"owner"`
	ModelMetrics map[string]float64 `json:"model_metrics"`
}

// ClassificationResponse is returned by models that estimate class probabilities.
type ClassificationResponse struct {
	QualityClass int                `json:"quality_class"`
	Confidence   float64            `json:"confidence"`
	Owner        Owner              `json:"owner"`
	ModelMetrics map[string]float64 `json:"model_metrics"`
}

// RegressionResponse is returned by models without probability output; Quality is
// the model output rounded to the nearest integer.
type RegressionResponse struct {
	Quality      int                `json:"quality"`
	Owner        Owner              `json:"owner"`
	ModelMetrics map[string]float64 `json:"model_metrics"`
}

type SchemaResponse struct {
	Name    string             `json:"name"`
	Fields  []schema.Field     `json:"fields"`
	Example map[string]float64 `json:"example"`
}

// ErrorResponse carries either a message or, for validation failures, the list of field errors.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}
