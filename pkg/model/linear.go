package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a linear classifier. With two classes and a single
// coefficient row it is binary (sigmoid), otherwise multinomial (softmax).
type LogisticRegression struct {
	Header       `yaml:",inline"`
	ClassLabels  []int       `json:"classes" yaml:"classes"`
	Coefficients [][]float64 `json:"coefficients" yaml:"coefficients"`
	Intercepts   []float64   `json:"intercepts" yaml:"intercepts"`
}

var _ Artifact = &LogisticRegression{}
var _ ProbabilityEstimator = &LogisticRegression{}

func (lr *LogisticRegression) binary() bool {
	return len(lr.ClassLabels) == 2 && len(lr.Coefficients) == 1
}

func (lr *LogisticRegression) Validate() error {
	if err := lr.Header.validate(); err != nil {
		return err
	}
	if err := validateClasses(lr.ClassLabels); err != nil {
		return err
	}
	if !lr.binary() && len(lr.Coefficients) != len(lr.ClassLabels) {
		return invalidf("%d coefficient rows for %d classes", len(lr.Coefficients), len(lr.ClassLabels))
	}
	if len(lr.Intercepts) != len(lr.Coefficients) {
		return invalidf("%d intercepts for %d coefficient rows", len(lr.Intercepts), len(lr.Coefficients))
	}
	for i, row := range lr.Coefficients {
		if len(row) != lr.NFeatures {
			return invalidf("coefficient row %d has %d values, want %d", i, len(row), lr.NFeatures)
		}
	}
	return nil
}

func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.ClassLabels...)
}

// decision returns x * W^T + b, one column per coefficient row.
func (lr *LogisticRegression) decision(x mat.Matrix) *mat.Dense {
	w := mat.NewDense(len(lr.Coefficients), lr.NFeatures, nil)
	for i, row := range lr.Coefficients {
		w.SetRow(i, row)
	}
	var z mat.Dense
	z.Mul(x, w.T())
	z.Apply(func(_, j int, v float64) float64 {
		return v + lr.Intercepts[j]
	}, &z)
	return &z
}

func (lr *LogisticRegression) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	if err := lr.checkInput(x); err != nil {
		return nil, err
	}
	z := lr.decision(x)
	r, _ := z.Dims()
	out := mat.NewDense(r, len(lr.ClassLabels), nil)
	for i := 0; i < r; i++ {
		if lr.binary() {
			p := sigmoid(z.At(i, 0))
			out.SetRow(i, []float64{1 - p, p})
			continue
		}
		out.SetRow(i, softmax(z.RawRowView(i)))
	}
	return out, nil
}

func (lr *LogisticRegression) Predict(x mat.Matrix) ([]float64, error) {
	proba, err := lr.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(proba, lr.ClassLabels), nil
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func softmax(z []float64) []float64 {
	max := floats.Max(z)
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = math.Exp(v - max)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// LinearRegression predicts a continuous value and has no probability output.
type LinearRegression struct {
	Header       `yaml:",inline"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	Intercept    float64   `json:"intercept" yaml:"intercept"`
}

var _ Artifact = &LinearRegression{}

func (lr *LinearRegression) Validate() error {
	if err := lr.Header.validate(); err != nil {
		return err
	}
	if len(lr.Coefficients) != lr.NFeatures {
		return invalidf("%d coefficients for %d features", len(lr.Coefficients), lr.NFeatures)
	}
	return nil
}

func (lr *LinearRegression) Predict(x mat.Matrix) ([]float64, error) {
	if err := lr.checkInput(x); err != nil {
		return nil, err
	}
	var y mat.VecDense
	y.MulVec(x, mat.NewVecDense(len(lr.Coefficients), lr.Coefficients))
	out := make([]float64, y.Len())
	for i := range out {
		out[i] = y.AtVec(i) + lr.Intercept
	}
	return out, nil
}
