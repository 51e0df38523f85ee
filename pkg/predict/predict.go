// Package predict runs a single validated feature vector through a model artifact
// and normalises the output into a label plus an optional confidence.
package predict

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tass-io/predictor/pkg/model"
	"github.com/tass-io/predictor/pkg/schema"
	"github.com/tass-io/predictor/pkg/tools/errorutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ConfidencePrecision is the number of decimal digits kept in Result.Confidence.
const ConfidencePrecision = 4

// Result is the normalised output for one vector.
type Result struct {
	// Label is the predicted class, or the regression output rounded half to even.
	Label int
	// Value is the raw first-row model output.
	Value float64
	// Confidence is the highest class probability; nil when the artifact cannot estimate probabilities.
	Confidence *float64
}

// Classification reports whether the result carries a class probability.
func (r Result) Classification() bool {
	return r.Confidence != nil
}

// Encode builds the single-row matrix the model consumes. Column order is schema order.
func Encode(v schema.Vector) *mat.Dense {
	return mat.NewDense(1, len(v), append([]float64(nil), v...))
}

// Predict never panics: every failure, including a panic inside the model, is
// returned as *errorutils.InferenceError.
func Predict(a model.Artifact, v schema.Vector) (res Result, err error) {
	if a == nil {
		return Result{}, &errorutils.ModelUnavailableError{}
	}
	defer func() {
		if p := recover(); p != nil {
			res, err = Result{}, &errorutils.InferenceError{Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	if len(v) != a.NumFeatures() {
		return Result{}, inferenceErrorf("model expects %d features, got %d", a.NumFeatures(), len(v))
	}
	x := Encode(v)

	out, err := a.Predict(x)
	if err != nil {
		return Result{}, &errorutils.InferenceError{Err: err}
	}
	if len(out) != 1 {
		return Result{}, inferenceErrorf("model returned %d outputs for 1 row", len(out))
	}
	if math.IsNaN(out[0]) || math.IsInf(out[0], 0) {
		return Result{}, inferenceErrorf("model returned non-finite output %v", out[0])
	}
	rounded := math.RoundToEven(out[0])
	if rounded >= float64(math.MaxInt) || rounded < float64(math.MinInt) {
		return Result{}, inferenceErrorf("model output %v does not fit an integer label", out[0])
	}
	res = Result{
		Label: int(rounded),
		Value: out[0],
	}

	pe, ok := model.Estimator(a)
	if !ok {
		return res, nil
	}
	proba, err := pe.PredictProba(x)
	if err != nil {
		return Result{}, &errorutils.InferenceError{Err: err}
	}
	if r, c := proba.Dims(); r != 1 || c == 0 {
		return Result{}, inferenceErrorf("model returned a %dx%d probability matrix for 1 row", r, c)
	}
	confidence, err := roundDecimal(floats.Max(proba.RawRowView(0)), ConfidencePrecision)
	if err != nil {
		return Result{}, &errorutils.InferenceError{Err: err}
	}
	if confidence < 0 || confidence > 1 || math.IsNaN(confidence) {
		return Result{}, inferenceErrorf("confidence %v outside [0,1]", confidence)
	}
	res.Confidence = &confidence
	return res, nil
}

// roundDecimal rounds the exact decimal value of x to prec digits, half to even,
// so 0.12345 becomes 0.1235 and 0.33335 becomes 0.3333.
func roundDecimal(x float64, prec int) (float64, error) {
	return strconv.ParseFloat(strconv.FormatFloat(x, 'f', prec, 64), 64)
}

func inferenceErrorf(format string, args ...interface{}) error {
	return &errorutils.InferenceError{Err: fmt.Errorf(format, args...)}
}
