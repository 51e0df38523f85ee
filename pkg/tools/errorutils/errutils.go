package errorutils

import "fmt"

// ModelUnavailableError is returned when a prediction is requested but no model was loaded at startup.
type ModelUnavailableError struct {
	Path string
}

func (e *ModelUnavailableError) Error() string {
	return "Model not loaded"
}

// InferenceError wraps any failure raised while encoding features or running the model.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("Prediction error: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// NotFoundError marks a resource that was never loaded, e.g. an empty metrics record.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not available"
}
