package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TreeNode is one node of a binary decision tree stored in pre-order. A row goes
// left when row[FeatureIdx] <= Threshold. Leaves have LeftChild == -1 and carry the
// per-class sample weights in Value.
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx" yaml:"feature_idx"`
	Threshold  float64   `json:"threshold" yaml:"threshold"`
	LeftChild  int       `json:"left_child" yaml:"left_child"`
	RightChild int       `json:"right_child" yaml:"right_child"`
	Value      []float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

func (n TreeNode) isLeaf() bool {
	return n.LeftChild < 0
}

// Tree is a flat node list, root first.
type Tree []TreeNode

func (t Tree) validate(nFeatures, nClasses int) error {
	if len(t) == 0 {
		return invalidf("tree has no nodes")
	}
	for i, node := range t {
		if node.isLeaf() {
			if len(node.Value) != nClasses {
				return invalidf("leaf %d has %d class weights, want %d", i, len(node.Value), nClasses)
			}
			if floats.Min(node.Value) < 0 || floats.Sum(node.Value) <= 0 {
				return invalidf("leaf %d has no positive class weight", i)
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= nFeatures {
			return invalidf("node %d splits on feature %d, out of range [0,%d)", i, node.FeatureIdx, nFeatures)
		}
		// children always follow their parent, so every walk terminates
		if node.LeftChild <= i || node.LeftChild >= len(t) || node.RightChild <= i || node.RightChild >= len(t) {
			return invalidf("node %d has invalid children %d/%d", i, node.LeftChild, node.RightChild)
		}
	}
	return nil
}

// distribution walks row to a leaf and returns its normalised class weights.
func (t Tree) distribution(row []float64) []float64 {
	idx := 0
	for !t[idx].isLeaf() {
		node := t[idx]
		if row[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	dist := append([]float64(nil), t[idx].Value...)
	floats.Scale(1/floats.Sum(dist), dist)
	return dist
}

// ensembleProba averages the leaf distributions of all trees for every row of x.
func ensembleProba(trees []Tree, x mat.Matrix, nClasses int) *mat.Dense {
	r, _ := x.Dims()
	out := mat.NewDense(r, nClasses, nil)
	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, x)
		acc := make([]float64, nClasses)
		for _, tree := range trees {
			floats.Add(acc, tree.distribution(row))
		}
		floats.Scale(1/float64(len(trees)), acc)
		out.SetRow(i, acc)
	}
	return out
}

// DecisionTree is a single CART classification tree.
type DecisionTree struct {
	Header      `yaml:",inline"`
	ClassLabels []int `json:"classes" yaml:"classes"`
	Nodes       Tree  `json:"nodes" yaml:"nodes"`
}

var _ Artifact = &DecisionTree{}
var _ ProbabilityEstimator = &DecisionTree{}

func (dt *DecisionTree) Validate() error {
	if err := dt.Header.validate(); err != nil {
		return err
	}
	if err := validateClasses(dt.ClassLabels); err != nil {
		return err
	}
	return dt.Nodes.validate(dt.NFeatures, len(dt.ClassLabels))
}

func (dt *DecisionTree) Classes() []int {
	return append([]int(nil), dt.ClassLabels...)
}

func (dt *DecisionTree) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	if err := dt.checkInput(x); err != nil {
		return nil, err
	}
	return ensembleProba([]Tree{dt.Nodes}, x, len(dt.ClassLabels)), nil
}

func (dt *DecisionTree) Predict(x mat.Matrix) ([]float64, error) {
	proba, err := dt.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(proba, dt.ClassLabels), nil
}

// RandomForest is a bagged ensemble of classification trees. Its class
// distribution is the mean of the per-tree leaf distributions.
type RandomForest struct {
	Header      `yaml:",inline"`
	ClassLabels []int  `json:"classes" yaml:"classes"`
	Trees       []Tree `json:"trees" yaml:"trees"`
}

var _ Artifact = &RandomForest{}
var _ ProbabilityEstimator = &RandomForest{}

func (rf *RandomForest) Validate() error {
	if err := rf.Header.validate(); err != nil {
		return err
	}
	if err := validateClasses(rf.ClassLabels); err != nil {
		return err
	}
	if len(rf.Trees) == 0 {
		return invalidf("forest has no trees")
	}
	for i, tree := range rf.Trees {
		if err := tree.validate(rf.NFeatures, len(rf.ClassLabels)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (rf *RandomForest) Classes() []int {
	return append([]int(nil), rf.ClassLabels...)
}

func (rf *RandomForest) PredictProba(x mat.Matrix) (*mat.Dense, error) {
	if err := rf.checkInput(x); err != nil {
		return nil, err
	}
	return ensembleProba(rf.Trees, x, len(rf.ClassLabels)), nil
}

func (rf *RandomForest) Predict(x mat.Matrix) ([]float64, error) {
	proba, err := rf.PredictProba(x)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(proba, rf.ClassLabels), nil
}
