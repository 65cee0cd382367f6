package service

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"loan-predictor/domain"
	"loan-predictor/ml"
)

// ErrModelsNotLoaded is returned when the model bundle is absent.
var ErrModelsNotLoaded = errors.New("models not loaded")

// roundTo3Decimals rounds half away from zero to 3 decimals.
func roundTo3Decimals(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// PredictionService scores loan applications against a loaded model bundle.
// The bundle is fixed at construction and never mutated.
type PredictionService struct {
	preprocessor ml.Preprocessor
	classifier   ml.Classifier
	logger       *zap.Logger
}

// NewPredictionService creates a PredictionService. Either model may be nil,
// in which case every prediction fails with ErrModelsNotLoaded.
func NewPredictionService(
	preprocessor ml.Preprocessor,
	classifier ml.Classifier,
	logger *zap.Logger,
) *PredictionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{
		preprocessor: preprocessor,
		classifier:   classifier,
		logger:       logger,
	}
}

// Ready reports whether both bundle members are present.
func (s *PredictionService) Ready() bool {
	return s.preprocessor != nil && s.classifier != nil
}

// Predict encodes, scales and classifies one application.
func (s *PredictionService) Predict(
	input domain.LoanInput,
) (domain.PredictionResult, error) {

	if !s.Ready() {
		return domain.PredictionResult{}, ErrModelsNotLoaded
	}

	features, unknown := encode(input)
	if len(unknown) > 0 {
		s.logger.Debug("categorical values encoded as 0",
			zap.Strings("fields", unknown))
	}

	scaled, err := s.preprocessor.Transform(features.Slice())
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("scale features: %w", err)
	}

	label, proba, err := s.classifier.Predict(scaled)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("classify: %w", err)
	}
	if len(proba) <= approvedClass {
		return domain.PredictionResult{}, fmt.Errorf("classify: expected at least %d class probabilities, got %d", approvedClass+1, len(proba))
	}

	prediction := LabelRejected
	if label == approvedClass {
		prediction = LabelApproved
	}

	return domain.PredictionResult{
		Prediction:  prediction,
		Probability: roundTo3Decimals(proba[approvedClass]),
	}, nil
}
