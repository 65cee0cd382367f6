package domain

// FeatureCount is the width of the vector the model bundle was trained on.
const FeatureCount = 12

// Feature positions. Order must match training exactly.
const (
	FeatureGender = iota
	FeatureAge
	FeatureReservedA
	FeatureEducation
	FeatureReservedB
	FeatureEmploymentYears
	FeatureIncome
	FeatureHomeOwnership
	FeatureCreditScore
	FeaturePreviousDefaults
	FeatureLoanAmount
	FeatureLoanIntent
)

// FeatureVector is the fixed-order numeric encoding of a LoanInput.
type FeatureVector [FeatureCount]float64

// Slice returns a copy of the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}
