package ml

import (
	"errors"
	"fmt"
	"math"
)

// LogisticRegression is a fitted binary logistic model.
type LogisticRegression struct {
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

func (lr *LogisticRegression) NumFeatures() int {
	if len(lr.Coef) == 0 {
		return 0
	}
	return len(lr.Coef[0])
}

func (lr *LogisticRegression) validate() error {
	if len(lr.Classes) != 2 {
		return fmt.Errorf("logistic_regression: expected 2 classes, got %d", len(lr.Classes))
	}
	if len(lr.Coef) != 1 || len(lr.Intercept) != 1 {
		return errors.New("logistic_regression: expected a single coefficient row and intercept")
	}
	if len(lr.Coef[0]) == 0 {
		return errors.New("logistic_regression: coefficients are empty")
	}
	return nil
}

func (lr *LogisticRegression) Predict(features []float64) (int, []float64, error) {
	coef := lr.Coef[0]
	if len(features) != len(coef) {
		return 0, nil, fmt.Errorf("logistic_regression: expected %d features, got %d", len(coef), len(features))
	}

	z := lr.Intercept[0]
	for i, x := range features {
		z += coef[i] * x
	}

	p := sigmoid(z)
	label := lr.Classes[0]
	if z > 0 {
		label = lr.Classes[1]
	}
	return label, []float64{1 - p, p}, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
