package service

import (
	"errors"
	"testing"

	"loan-predictor/domain"
)

type MockPreprocessor struct {
	Called   bool
	Received []float64
	Err      error
}

func (m *MockPreprocessor) Transform(features []float64) ([]float64, error) {
	m.Called = true
	m.Received = features
	if m.Err != nil {
		return nil, m.Err
	}
	return features, nil
}

type MockClassifier struct {
	Called bool
	Label  int
	Proba  []float64
	Err    error
}

func (m *MockClassifier) Predict(features []float64) (int, []float64, error) {
	m.Called = true
	return m.Label, m.Proba, m.Err
}

func TestPredict_Approved(t *testing.T) {

	pre := &MockPreprocessor{}
	clf := &MockClassifier{Label: 1, Proba: []float64{0.12345, 0.87655}}
	service := NewPredictionService(pre, clf, nil)

	result, err := service.Predict(sampleInput())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Prediction != LabelApproved {
		t.Errorf("expected %s, got %s", LabelApproved, result.Prediction)
	}
	if result.Probability != 0.877 {
		t.Errorf("expected 0.877, got %v", result.Probability)
	}

	expected := []float64{1, 30, 0, 2, 0, 5, 60000, 1, 720, 0, 10000, 1}
	for i := range expected {
		if pre.Received[i] != expected[i] {
			t.Fatalf("preprocessor received %v, expected %v", pre.Received, expected)
		}
	}
}

func TestPredict_Rejected(t *testing.T) {

	clf := &MockClassifier{Label: 0, Proba: []float64{0.9, 0.1}}
	service := NewPredictionService(&MockPreprocessor{}, clf, nil)

	result, err := service.Predict(sampleInput())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Prediction != LabelRejected {
		t.Errorf("expected %s, got %s", LabelRejected, result.Prediction)
	}
	if result.Probability != 0.1 {
		t.Errorf("expected 0.1, got %v", result.Probability)
	}
}

func TestPredict_LabelOtherThanOneIsRejected(t *testing.T) {

	clf := &MockClassifier{Label: 2, Proba: []float64{0.1, 0.2, 0.7}}
	service := NewPredictionService(&MockPreprocessor{}, clf, nil)

	result, _ := service.Predict(sampleInput())

	if result.Prediction != LabelRejected {
		t.Errorf("expected %s, got %s", LabelRejected, result.Prediction)
	}
	if result.Probability != 0.2 {
		t.Errorf("expected probability of class 1, got %v", result.Probability)
	}
}

func TestPredict_ModelsNotLoaded(t *testing.T) {

	tests := []struct {
		name string
		pre  *MockPreprocessor
		clf  *MockClassifier
	}{
		{"both missing", nil, nil},
		{"preprocessor missing", nil, &MockClassifier{}},
		{"classifier missing", &MockPreprocessor{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewPredictionService(nil, nil, nil)
			if tt.pre != nil {
				service.preprocessor = tt.pre
			}
			if tt.clf != nil {
				service.classifier = tt.clf
			}

			_, err := service.Predict(sampleInput())

			if !errors.Is(err, ErrModelsNotLoaded) {
				t.Errorf("expected ErrModelsNotLoaded, got %v", err)
			}
			if tt.pre != nil && tt.pre.Called {
				t.Errorf("preprocessor should NOT be called")
			}
			if tt.clf != nil && tt.clf.Called {
				t.Errorf("classifier should NOT be called")
			}
		})
	}
}

func TestPredict_PropagatesModelErrors(t *testing.T) {

	scaleErr := errors.New("bad width")
	service := NewPredictionService(&MockPreprocessor{Err: scaleErr}, &MockClassifier{}, nil)

	if _, err := service.Predict(sampleInput()); !errors.Is(err, scaleErr) {
		t.Errorf("expected wrapped scale error, got %v", err)
	}

	service = NewPredictionService(&MockPreprocessor{}, &MockClassifier{Label: 1, Proba: []float64{1}}, nil)
	if _, err := service.Predict(sampleInput()); err == nil {
		t.Errorf("expected error for short probability vector")
	}
}

func TestPredict_IsDeterministic(t *testing.T) {

	clf := &MockClassifier{Label: 1, Proba: []float64{0.3333, 0.6667}}
	service := NewPredictionService(&MockPreprocessor{}, clf, nil)

	first, _ := service.Predict(sampleInput())
	second, _ := service.Predict(sampleInput())

	if first != second {
		t.Errorf("expected identical results, got %v and %v", first, second)
	}
}

func TestRoundTo3Decimals(t *testing.T) {

	cases := map[float64]float64{
		0:        0,
		1:        1,
		0.12345:  0.123,
		0.9996:   1,
		0.0004:   0,
		0.876543: 0.877,
	}
	for in, want := range cases {
		if got := roundTo3Decimals(in); got != want {
			t.Errorf("round(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestPredict_NilDomainResultOnError(t *testing.T) {

	service := NewPredictionService(nil, nil, nil)

	result, _ := service.Predict(sampleInput())

	if result != (domain.PredictionResult{}) {
		t.Errorf("expected zero result, got %v", result)
	}
}
