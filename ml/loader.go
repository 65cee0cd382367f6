package ml

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"loan-predictor/domain"
	"loan-predictor/repository"
)

// BundleConfig names the two artifacts that make up a model bundle.
type BundleConfig struct {
	Preprocessor string
	Classifier   string
	// RuntimeLibrary is the onnxruntime shared library used for .onnx artifacts.
	RuntimeLibrary string
}

// LoadBundle loads the preprocessor and classifier from repo. It returns
// both, or (nil, nil) if either one could not be loaded. Failures are
// logged and never returned, so the caller can serve in a degraded state.
func LoadBundle(
	ctx context.Context,
	repo repository.ArtifactRepository,
	cfg BundleConfig,
	logger *zap.Logger,
) (Preprocessor, Classifier) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pre, err := loadPreprocessor(ctx, repo, cfg, logger)
	if err != nil {
		logger.Error("failed to load preprocessor",
			zap.String("artifact", cfg.Preprocessor), zap.Error(err))
		return nil, nil
	}

	clf, err := loadClassifier(ctx, repo, cfg, logger)
	if err != nil {
		logger.Error("failed to load classifier",
			zap.String("artifact", cfg.Classifier), zap.Error(err))
		closeArtifact(pre)
		return nil, nil
	}

	logger.Info("model bundle loaded",
		zap.String("preprocessor", cfg.Preprocessor),
		zap.String("classifier", cfg.Classifier))
	return pre, clf
}

// CloseBundle releases native resources held by bundle members.
func CloseBundle(pre Preprocessor, clf Classifier) {
	closeArtifact(pre)
	closeArtifact(clf)
}

func loadPreprocessor(
	ctx context.Context,
	repo repository.ArtifactRepository,
	cfg BundleConfig,
	logger *zap.Logger,
) (Preprocessor, error) {
	data, err := fetch(ctx, repo, cfg.Preprocessor, logger)
	if err != nil {
		return nil, err
	}

	var pre Preprocessor
	switch artifactFormat(cfg.Preprocessor) {
	case formatONNX:
		pre, err = newONNXPreprocessor(data, cfg.RuntimeLibrary)
	case formatJSON:
		pre, err = decodeNativePreprocessor(data)
	default:
		err = fmt.Errorf("unsupported artifact format %q", filepath.Ext(cfg.Preprocessor))
	}
	if err != nil {
		return nil, err
	}

	if err := checkWidth(pre); err != nil {
		closeArtifact(pre)
		return nil, err
	}
	return pre, nil
}

func loadClassifier(
	ctx context.Context,
	repo repository.ArtifactRepository,
	cfg BundleConfig,
	logger *zap.Logger,
) (Classifier, error) {
	data, err := fetch(ctx, repo, cfg.Classifier, logger)
	if err != nil {
		return nil, err
	}

	var clf Classifier
	switch artifactFormat(cfg.Classifier) {
	case formatONNX:
		clf, err = newONNXClassifier(data, cfg.RuntimeLibrary)
	case formatJSON:
		clf, err = decodeNativeClassifier(data)
	default:
		err = fmt.Errorf("unsupported artifact format %q", filepath.Ext(cfg.Classifier))
	}
	if err != nil {
		return nil, err
	}

	if err := checkWidth(clf); err != nil {
		closeArtifact(clf)
		return nil, err
	}
	return clf, nil
}

func fetch(
	ctx context.Context,
	repo repository.ArtifactRepository,
	name string,
	logger *zap.Logger,
) ([]byte, error) {
	data, ok, err := repo.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("artifact %q not found", name)
	}

	logger.Info("artifact fetched",
		zap.String("artifact", name),
		zap.Int("bytes", len(data)),
		zap.String("xxhash64", fmt.Sprintf("%016x", xxhash.Sum64(data))))
	return data, nil
}

type format int

const (
	formatUnknown format = iota
	formatONNX
	formatJSON
)

func artifactFormat(name string) format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".onnx":
		return formatONNX
	case ".json":
		return formatJSON
	default:
		return formatUnknown
	}
}

func checkWidth(artifact any) error {
	fc, ok := artifact.(featureCounter)
	if !ok {
		return nil
	}
	if n := fc.NumFeatures(); n > 0 && n != domain.FeatureCount {
		return fmt.Errorf("artifact expects %d features, bundle requires %d", n, domain.FeatureCount)
	}
	return nil
}

func closeArtifact(artifact any) {
	if c, ok := artifact.(io.Closer); ok {
		c.Close()
	}
}
