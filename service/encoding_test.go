package service

import (
	"testing"

	"loan-predictor/domain"
)

func sampleInput() domain.LoanInput {
	return domain.LoanInput{
		Gender:           "female",
		Age:              30,
		Education:        "Master",
		EmploymentYears:  5,
		Income:           60000,
		HomeOwnership:    "OWN",
		CreditScore:      720,
		PreviousDefaults: "NO",
		LoanAmount:       10000,
		LoanIntent:       "EDUCATION",
	}
}

func TestEncode_ExampleApplicant(t *testing.T) {

	got := Encode(sampleInput())

	expected := domain.FeatureVector{1, 30, 0, 2, 0, 5, 60000, 1, 720, 0, 10000, 1}
	if got != expected {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestEncode_IsDeterministic(t *testing.T) {

	input := sampleInput()

	if Encode(input) != Encode(input) {
		t.Errorf("expected identical vectors for identical input")
	}
}

func TestEncode_GenderIsCaseInsensitive(t *testing.T) {

	for _, g := range []string{"male", "Male", "MALE", "mAlE"} {
		input := sampleInput()
		input.Gender = g

		if code := Encode(input)[domain.FeatureGender]; code != 0 {
			t.Errorf("gender %q: expected 0, got %v", g, code)
		}
	}

	input := sampleInput()
	input.Gender = "FEMALE"
	if code := Encode(input)[domain.FeatureGender]; code != 1 {
		t.Errorf("gender FEMALE: expected 1, got %v", code)
	}
}

func TestEncode_CategoricalTables(t *testing.T) {

	tests := []struct {
		name     string
		mutate   func(*domain.LoanInput)
		position int
		expected float64
	}{
		{"education high school", func(in *domain.LoanInput) { in.Education = "High School" }, domain.FeatureEducation, 0},
		{"education bachelor", func(in *domain.LoanInput) { in.Education = "Bachelor" }, domain.FeatureEducation, 1},
		{"education doctor", func(in *domain.LoanInput) { in.Education = "Doctor" }, domain.FeatureEducation, 3},
		{"education lowercase is not matched", func(in *domain.LoanInput) { in.Education = "bachelor" }, domain.FeatureEducation, 0},
		{"home rent", func(in *domain.LoanInput) { in.HomeOwnership = "RENT" }, domain.FeatureHomeOwnership, 0},
		{"home mortgage", func(in *domain.LoanInput) { in.HomeOwnership = "MORTGAGE" }, domain.FeatureHomeOwnership, 2},
		{"home lowercase is not matched", func(in *domain.LoanInput) { in.HomeOwnership = "own" }, domain.FeatureHomeOwnership, 0},
		{"intent medical", func(in *domain.LoanInput) { in.LoanIntent = "MEDICAL" }, domain.FeatureLoanIntent, 2},
		{"intent venture", func(in *domain.LoanInput) { in.LoanIntent = "VENTURE" }, domain.FeatureLoanIntent, 3},
		{"intent home", func(in *domain.LoanInput) { in.LoanIntent = "HOME" }, domain.FeatureLoanIntent, 4},
		{"intent unknown falls back", func(in *domain.LoanInput) { in.LoanIntent = "UNKNOWN_VALUE" }, domain.FeatureLoanIntent, 0},
		{"defaults yes", func(in *domain.LoanInput) { in.PreviousDefaults = "YES" }, domain.FeaturePreviousDefaults, 1},
		{"defaults lowercase is not matched", func(in *domain.LoanInput) { in.PreviousDefaults = "yes" }, domain.FeaturePreviousDefaults, 0},
		{"gender unknown falls back", func(in *domain.LoanInput) { in.Gender = "other" }, domain.FeatureGender, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleInput()
			tt.mutate(&input)

			if got := Encode(input)[tt.position]; got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestEncode_ReservedSlotsAreZero(t *testing.T) {

	v := Encode(sampleInput())

	if v[domain.FeatureReservedA] != 0 || v[domain.FeatureReservedB] != 0 {
		t.Errorf("expected reserved slots to be 0, got %v", v)
	}
}

func TestEncode_ReportsUnknownFields(t *testing.T) {

	input := sampleInput()
	input.LoanIntent = "UNKNOWN_VALUE"
	input.Education = "bachelor"

	_, unknown := encode(input)

	if len(unknown) != 2 {
		t.Fatalf("expected 2 unknown fields, got %v", unknown)
	}
	if unknown[0] != "person_education" || unknown[1] != "loan_intent" {
		t.Errorf("unexpected fields %v", unknown)
	}
}
