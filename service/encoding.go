package service

import (
	"strings"

	"loan-predictor/domain"
)

// Encode maps a LoanInput to the feature vector the model bundle expects.
// It is a pure function of its input.
func Encode(input domain.LoanInput) domain.FeatureVector {
	v, _ := encode(input)
	return v
}

// encode also reports which categorical fields fell back to code 0
// because their value was not in the lookup table.
func encode(input domain.LoanInput) (domain.FeatureVector, []string) {
	var unknown []string
	lookup := func(field string, table map[string]int, value string) float64 {
		code, ok := table[value]
		if !ok {
			unknown = append(unknown, field)
		}
		return float64(code)
	}

	var v domain.FeatureVector
	v[domain.FeatureGender] = lookup("person_gender", genderCodes, strings.ToLower(input.Gender))
	v[domain.FeatureAge] = float64(input.Age)
	v[domain.FeatureReservedA] = 0
	v[domain.FeatureEducation] = lookup("person_education", educationCodes, input.Education)
	v[domain.FeatureReservedB] = 0
	v[domain.FeatureEmploymentYears] = float64(input.EmploymentYears)
	v[domain.FeatureIncome] = input.Income
	v[domain.FeatureHomeOwnership] = lookup("person_home_ownership", homeOwnershipCodes, input.HomeOwnership)
	v[domain.FeatureCreditScore] = float64(input.CreditScore)
	v[domain.FeaturePreviousDefaults] = lookup("previous_loan_defaults_on_file", previousDefaultsCodes, input.PreviousDefaults)
	v[domain.FeatureLoanAmount] = input.LoanAmount
	v[domain.FeatureLoanIntent] = lookup("loan_intent", loanIntentCodes, input.LoanIntent)

	return v, unknown
}
