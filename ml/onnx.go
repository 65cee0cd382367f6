package ml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages the process-wide ONNX Runtime initialization.
var ortEnv struct {
	once sync.Once
	err  error
}

func initRuntime(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath == "" {
			ortEnv.err = errors.New("onnxruntime shared library not found; set ONNXRUNTIME_SHARED_LIBRARY_PATH or model.onnxruntime_library")
			return
		}
		ort.SetSharedLibraryPath(libPath)
		if !ort.IsInitialized() {
			ortEnv.err = ort.InitializeEnvironment()
		}
	})
	return ortEnv.err
}

// resolveSharedLibraryPath picks the onnxruntime library: explicit config
// first, then ONNXRUNTIME_SHARED_LIBRARY_PATH, then common install locations.
func resolveSharedLibraryPath(configured string) string {
	if configured != "" {
		return configured
	}
	if env := strings.TrimSpace(os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH")); env != "" {
		return env
	}

	names := []string{
		"libonnxruntime.so",
		"libonnxruntime.dylib",
		"onnxruntime.dll",
	}
	dirs := []string{
		".",
		"lib",
		"/opt/homebrew/lib",
		"/usr/local/lib",
		"/usr/lib",
	}
	for _, dir := range dirs {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// onnxSession wraps a DynamicAdvancedSession over a single [1, n] input.
// Output tensors are allocated per Run, so concurrent calls are safe.
type onnxSession struct {
	session *ort.DynamicAdvancedSession
	input   ort.InputOutputInfo
	outputs []ort.InputOutputInfo
}

func newONNXSession(data []byte, libPath string, minOutputs int) (*onnxSession, error) {
	if err := initRuntime(resolveSharedLibraryPath(libPath)); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(data)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 input, model has %d", len(inputs))
	}
	if len(outputs) < minOutputs {
		return nil, fmt.Errorf("onnx: expected at least %d outputs, model has %d", minOutputs, len(outputs))
	}
	outputs = outputs[:minOutputs]
	for _, out := range outputs {
		if out.OrtValueType != ort.ONNXTypeTensor {
			return nil, fmt.Errorf("onnx: output %q is not a tensor (export with zipmap disabled)", out.Name)
		}
	}

	outputNames := make([]string, len(outputs))
	for i, out := range outputs {
		outputNames[i] = out.Name
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(
		data,
		[]string{inputs[0].Name},
		outputNames,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &onnxSession{
		session: session,
		input:   inputs[0],
		outputs: outputs,
	}, nil
}

// NumFeatures returns the fixed input width, or 0 when it is dynamic.
func (s *onnxSession) NumFeatures() int {
	dims := s.input.Dimensions
	if len(dims) != 2 || dims[1] <= 0 {
		return 0
	}
	return int(dims[1])
}

func (s *onnxSession) run(features []float64) ([]ort.Value, error) {
	input, err := s.newInputTensor(features)
	if err != nil {
		return nil, err
	}
	defer input.Destroy()

	outputs := make([]ort.Value, len(s.outputs))
	if err := s.session.Run([]ort.Value{input}, outputs); err != nil {
		destroyAll(outputs)
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}
	return outputs, nil
}

func (s *onnxSession) newInputTensor(features []float64) (ort.Value, error) {
	shape := ort.NewShape(1, int64(len(features)))

	switch s.input.DataType {
	case ort.TensorElementDataTypeDouble:
		data := make([]float64, len(features))
		copy(data, features)
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
		}
		return t, nil
	case ort.TensorElementDataTypeFloat:
		data := make([]float32, len(features))
		for i, x := range features {
			data[i] = float32(x)
		}
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("onnx: unsupported input element type %v", s.input.DataType)
	}
}

func (s *onnxSession) Close() error {
	return s.session.Destroy()
}

func destroyAll(values []ort.Value) {
	for _, v := range values {
		if v != nil {
			v.Destroy()
		}
	}
}

// floatData copies a float32 or float64 tensor into a []float64.
func floatData(v ort.Value) ([]float64, error) {
	switch t := v.(type) {
	case *ort.Tensor[float64]:
		src := t.GetData()
		out := make([]float64, len(src))
		copy(out, src)
		return out, nil
	case *ort.Tensor[float32]:
		src := t.GetData()
		out := make([]float64, len(src))
		for i, x := range src {
			out[i] = float64(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("onnx: unexpected output value %T", v)
	}
}

// ONNXPreprocessor runs a scaling transform exported to ONNX.
type ONNXPreprocessor struct {
	*onnxSession
}

func newONNXPreprocessor(data []byte, libPath string) (*ONNXPreprocessor, error) {
	s, err := newONNXSession(data, libPath, 1)
	if err != nil {
		return nil, err
	}
	return &ONNXPreprocessor{onnxSession: s}, nil
}

func (p *ONNXPreprocessor) Transform(features []float64) ([]float64, error) {
	outputs, err := p.run(features)
	if err != nil {
		return nil, err
	}
	defer destroyAll(outputs)

	scaled, err := floatData(outputs[0])
	if err != nil {
		return nil, err
	}
	if len(scaled) != len(features) {
		return nil, fmt.Errorf("onnx: transform returned %d values for %d features", len(scaled), len(features))
	}
	return scaled, nil
}

// ONNXClassifier runs a classifier exported to ONNX. The first output is
// the label tensor, the second the per-class probability tensor.
type ONNXClassifier struct {
	*onnxSession
}

func newONNXClassifier(data []byte, libPath string) (*ONNXClassifier, error) {
	s, err := newONNXSession(data, libPath, 2)
	if err != nil {
		return nil, err
	}
	if s.outputs[0].DataType != ort.TensorElementDataTypeInt64 {
		s.Close()
		return nil, fmt.Errorf("onnx: label output %q must be int64", s.outputs[0].Name)
	}
	return &ONNXClassifier{onnxSession: s}, nil
}

func (c *ONNXClassifier) Predict(features []float64) (int, []float64, error) {
	outputs, err := c.run(features)
	if err != nil {
		return 0, nil, err
	}
	defer destroyAll(outputs)

	labels, ok := outputs[0].(*ort.Tensor[int64])
	if !ok {
		return 0, nil, fmt.Errorf("onnx: unexpected label value %T", outputs[0])
	}
	labelData := labels.GetData()
	if len(labelData) == 0 {
		return 0, nil, errors.New("onnx: empty label output")
	}

	proba, err := floatData(outputs[1])
	if err != nil {
		return 0, nil, err
	}
	return int(labelData[0]), proba, nil
}
