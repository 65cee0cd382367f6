package ml

import (
	"errors"
	"fmt"
)

// DecisionTree is a fitted classification tree in flat-array form.
// Node i is a leaf when ChildrenLeft[i] is -1.
type DecisionTree struct {
	Classes       []int       `json:"classes"`
	Features      int         `json:"n_features"`
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func (dt *DecisionTree) NumFeatures() int {
	return dt.Features
}

func (dt *DecisionTree) validate() error {
	n := len(dt.ChildrenLeft)
	if n == 0 {
		return errors.New("decision_tree: no nodes")
	}
	if len(dt.ChildrenRight) != n || len(dt.Feature) != n || len(dt.Threshold) != n || len(dt.Value) != n {
		return errors.New("decision_tree: node arrays differ in length")
	}
	if len(dt.Classes) == 0 {
		return errors.New("decision_tree: classes are empty")
	}
	for i := 0; i < n; i++ {
		if len(dt.Value[i]) != len(dt.Classes) {
			return fmt.Errorf("decision_tree: node %d has %d class weights, want %d", i, len(dt.Value[i]), len(dt.Classes))
		}
		if dt.ChildrenLeft[i] == -1 {
			continue
		}
		if dt.ChildrenLeft[i] <= i || dt.ChildrenLeft[i] >= n || dt.ChildrenRight[i] <= i || dt.ChildrenRight[i] >= n {
			return fmt.Errorf("decision_tree: node %d has invalid children", i)
		}
		if dt.Feature[i] < 0 || (dt.Features > 0 && dt.Feature[i] >= dt.Features) {
			return fmt.Errorf("decision_tree: node %d splits on feature %d", i, dt.Feature[i])
		}
	}
	return nil
}

func (dt *DecisionTree) Predict(features []float64) (int, []float64, error) {
	if dt.Features > 0 && len(features) != dt.Features {
		return 0, nil, fmt.Errorf("decision_tree: expected %d features, got %d", dt.Features, len(features))
	}

	idx := 0
	for dt.ChildrenLeft[idx] != -1 {
		f := dt.Feature[idx]
		if f >= len(features) {
			return 0, nil, errors.New("decision_tree: feature index out of range")
		}
		if features[f] <= dt.Threshold[idx] {
			idx = dt.ChildrenLeft[idx]
		} else {
			idx = dt.ChildrenRight[idx]
		}
	}

	weights := dt.Value[idx]
	total := 0.0
	for _, w := range weights {
		total += w
	}

	proba := make([]float64, len(weights))
	best := 0
	for i, w := range weights {
		if total > 0 {
			proba[i] = w / total
		}
		if w > weights[best] {
			best = i
		}
	}
	return dt.Classes[best], proba, nil
}
