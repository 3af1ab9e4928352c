package models

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/features"
)

// Predictor maps an encoded vector to a raw model output.
type Predictor interface {
	Predict(x features.Vector) (float64, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(x features.Vector) (float64, error)

func (f PredictorFunc) Predict(x features.Vector) (float64, error) { return f(x) }

// LinearModel is an ordinary least squares or lasso regression.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Predict returns intercept + coefficients·x.
func (m *LinearModel) Predict(x features.Vector) (float64, error) {
	if len(x) != len(m.Coefficients) {
		return 0, fmt.Errorf("linear model expects %d features, got %d", len(m.Coefficients), len(x))
	}
	return m.Intercept + floats.Dot(m.Coefficients, x), nil
}

func (m *LinearModel) check(dim int) error {
	if len(m.Coefficients) != dim {
		return fmt.Errorf("%d coefficients for a %d column schema", len(m.Coefficients), dim)
	}
	return nil
}

// Node is one split or leaf of a regression tree. A node whose Left is
// negative is a leaf; otherwise x[Feature] < Threshold goes Left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      float64 `json:"leaf"`
}

func (n Node) isLeaf() bool { return n.Left < 0 }

// Tree is a flat regression tree rooted at Nodes[0].
type Tree struct {
	Nodes []Node `json:"nodes"`
}

var errTreeCycle = errors.New("tree walk did not reach a leaf")

func (t Tree) eval(x features.Vector) (float64, error) {
	i := 0
	// a well formed tree reaches a leaf in fewer steps than it has nodes
	for range t.Nodes {
		n := t.Nodes[i]
		if n.isLeaf() {
			return n.Leaf, nil
		}
		if x[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return 0, errTreeCycle
}

// TreeEnsemble is a gradient boosted sum of regression trees.
type TreeEnsemble struct {
	BaseScore float64 `json:"base_score"`
	Trees     []Tree  `json:"trees"`
	dim       int
}

// Predict returns BaseScore plus the leaf value of every tree.
func (m *TreeEnsemble) Predict(x features.Vector) (float64, error) {
	if m.dim > 0 && len(x) != m.dim {
		return 0, fmt.Errorf("tree ensemble expects %d features, got %d", m.dim, len(x))
	}
	sum := m.BaseScore
	for i, t := range m.Trees {
		v, err := t.eval(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum, nil
}

func (m *TreeEnsemble) check(dim int) error {
	for ti, t := range m.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range t.Nodes {
			if n.isLeaf() {
				continue
			}
			if n.Feature < 0 || n.Feature >= dim {
				return fmt.Errorf("tree %d node %d splits on feature %d outside a %d column schema", ti, ni, n.Feature, dim)
			}
			// children come after their parent, so every walk ends on a leaf
			for _, child := range []int{n.Left, n.Right} {
				if child <= ni || child >= len(t.Nodes) {
					return fmt.Errorf("tree %d node %d has child %d outside (%d, %d)", ti, ni, child, ni, len(t.Nodes))
				}
			}
		}
	}
	m.dim = dim
	return nil
}
