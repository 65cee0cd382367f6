package ml

// Preprocessor is a fitted scaling transform applied to one feature vector.
type Preprocessor interface {
	Transform(features []float64) ([]float64, error)
}

// Classifier scores one scaled feature vector. It returns the predicted
// class label and the probability for each class, indexed in class order.
type Classifier interface {
	Predict(features []float64) (int, []float64, error)
}

// featureCounter is implemented by artifacts that know their input width.
type featureCounter interface {
	NumFeatures() int
}
