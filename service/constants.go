package service

const (
	LabelApproved = "Approved"
	LabelRejected = "Rejected"

	// approvedClass is the classifier label and probability column of an approval.
	approvedClass = 1
)

// Categorical encodings used at training time. Values missing from a
// table encode to 0.
var (
	genderCodes = map[string]int{
		"male":   0,
		"female": 1,
	}
	educationCodes = map[string]int{
		"High School": 0,
		"Bachelor":    1,
		"Master":      2,
		"Doctor":      3,
	}
	homeOwnershipCodes = map[string]int{
		"RENT":     0,
		"OWN":      1,
		"MORTGAGE": 2,
	}
	loanIntentCodes = map[string]int{
		"PERSONAL":  0,
		"EDUCATION": 1,
		"MEDICAL":   2,
		"VENTURE":   3,
		"HOME":      4,
	}
	previousDefaultsCodes = map[string]int{
		"NO":  0,
		"YES": 1,
	}
)
