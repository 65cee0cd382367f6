package ml

import (
	"encoding/json"
	"fmt"
)

// Native artifacts are JSON documents exported by the training pipeline.
// The "type" field selects the concrete model.
const (
	TypeStandardScaler     = "standard_scaler"
	TypeMinMaxScaler       = "min_max_scaler"
	TypeLogisticRegression = "logistic_regression"
	TypeDecisionTree       = "decision_tree"
)

type artifactHeader struct {
	Type string `json:"type"`
}

type validator interface {
	validate() error
}

func decodeNativePreprocessor(data []byte) (Preprocessor, error) {
	kind, err := artifactType(data)
	if err != nil {
		return nil, err
	}

	var p Preprocessor
	switch kind {
	case TypeStandardScaler:
		p = &StandardScaler{}
	case TypeMinMaxScaler:
		p = &MinMaxScaler{}
	default:
		return nil, fmt.Errorf("unsupported preprocessor type %q", kind)
	}
	if err := decodeInto(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeNativeClassifier(data []byte) (Classifier, error) {
	kind, err := artifactType(data)
	if err != nil {
		return nil, err
	}

	var c Classifier
	switch kind {
	case TypeLogisticRegression:
		c = &LogisticRegression{}
	case TypeDecisionTree:
		c = &DecisionTree{}
	default:
		return nil, fmt.Errorf("unsupported classifier type %q", kind)
	}
	if err := decodeInto(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func artifactType(data []byte) (string, error) {
	var h artifactHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return "", fmt.Errorf("decode artifact header: %w", err)
	}
	if h.Type == "" {
		return "", fmt.Errorf("artifact has no type")
	}
	return h.Type, nil
}

func decodeInto(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	if v, ok := target.(validator); ok {
		return v.validate()
	}
	return nil
}
