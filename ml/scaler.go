package ml

import (
	"errors"
	"fmt"
)

// StandardScaler applies (x - mean) / scale per column.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) NumFeatures() int {
	if len(s.Scale) > 0 {
		return len(s.Scale)
	}
	return len(s.Mean)
}

func (s *StandardScaler) validate() error {
	if s.NumFeatures() == 0 {
		return errors.New("standard_scaler: mean and scale are empty")
	}
	if len(s.Mean) > 0 && len(s.Scale) > 0 && len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("standard_scaler: mean has %d values, scale has %d", len(s.Mean), len(s.Scale))
	}
	return nil
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != s.NumFeatures() {
		return nil, fmt.Errorf("standard_scaler: expected %d features, got %d", s.NumFeatures(), len(features))
	}
	out := make([]float64, len(features))
	for i, x := range features {
		if len(s.Mean) > 0 {
			x -= s.Mean[i]
		}
		if len(s.Scale) > 0 && s.Scale[i] != 0 {
			x /= s.Scale[i]
		}
		out[i] = x
	}
	return out, nil
}

// MinMaxScaler applies x * scale + min per column.
type MinMaxScaler struct {
	Min   []float64 `json:"min"`
	Scale []float64 `json:"scale"`
}

func (s *MinMaxScaler) NumFeatures() int {
	return len(s.Scale)
}

func (s *MinMaxScaler) validate() error {
	if len(s.Scale) == 0 {
		return errors.New("min_max_scaler: scale is empty")
	}
	if len(s.Min) != len(s.Scale) {
		return fmt.Errorf("min_max_scaler: min has %d values, scale has %d", len(s.Min), len(s.Scale))
	}
	return nil
}

func (s *MinMaxScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Scale) {
		return nil, fmt.Errorf("min_max_scaler: expected %d features, got %d", len(s.Scale), len(features))
	}
	out := make([]float64, len(features))
	for i, x := range features {
		out[i] = x*s.Scale[i] + s.Min[i]
	}
	return out, nil
}
