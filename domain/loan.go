package domain

// LoanInput is a single applicant record submitted for scoring.
type LoanInput struct {
	Gender           string
	Age              int
	Education        string
	EmploymentYears  int
	Income           float64
	HomeOwnership    string
	CreditScore      int
	PreviousDefaults string
	LoanAmount       float64
	LoanIntent       string
}

// PredictionResult is the decision returned to the caller.
type PredictionResult struct {
	Prediction  string  `json:"prediction"`
	Probability float64 `json:"probability"`
}
