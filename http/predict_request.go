package http

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"loan-predictor/domain"
)

// predictRequest is the wire form of domain.LoanInput. Pointer fields let
// the validator tell a missing field from a zero value. Integer fields are
// read as numbers so whole floats such as 30.0 are accepted.
type predictRequest struct {
	PersonGender               *string  `json:"person_gender" validate:"required"`
	PersonAge                  *float64 `json:"person_age" validate:"required"`
	PersonEducation            *string  `json:"person_education" validate:"required"`
	PersonEmpExp               *float64 `json:"person_emp_exp" validate:"required"`
	PersonIncome               *float64 `json:"person_income" validate:"required"`
	PersonHomeOwnership        *string  `json:"person_home_ownership" validate:"required"`
	CreditScore                *float64 `json:"credit_score" validate:"required"`
	PreviousLoanDefaultsOnFile *string  `json:"previous_loan_defaults_on_file" validate:"required"`
	LoanAmnt                   *float64 `json:"loan_amnt" validate:"required"`
	LoanIntent                 *string  `json:"loan_intent" validate:"required"`
}

// integerFields are decoded as float64 but must hold whole numbers.
var integerFields = map[string]bool{
	"person_age":     true,
	"person_emp_exp": true,
	"credit_score":   true,
}

// largest magnitude that converts to int without loss
const maxWholeNumber = 1 << 53

func (r predictRequest) toDomain() domain.LoanInput {
	return domain.LoanInput{
		Gender:           *r.PersonGender,
		Age:              int(*r.PersonAge),
		Education:        *r.PersonEducation,
		EmploymentYears:  int(*r.PersonEmpExp),
		Income:           *r.PersonIncome,
		HomeOwnership:    *r.PersonHomeOwnership,
		CreditScore:      int(*r.CreditScore),
		PreviousDefaults: *r.PreviousLoanDefaultsOnFile,
		LoanAmount:       *r.LoanAmnt,
		LoanIntent:       *r.LoanIntent,
	}
}

// wholeNumberErrors reports integer fields that carry a fractional part.
func (r predictRequest) wholeNumberErrors() ValidationError {
	fields := []struct {
		name  string
		value *float64
	}{
		{"person_age", r.PersonAge},
		{"person_emp_exp", r.PersonEmpExp},
		{"credit_score", r.CreditScore},
	}

	var out ValidationError
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		v := *f.value
		switch {
		case math.Abs(v) > maxWholeNumber:
			out = append(out, FieldError{
				Loc:  []string{"body", f.name},
				Msg:  "Input should be a valid integer",
				Type: "int_parsing",
			})
		case v != math.Trunc(v):
			out = append(out, FieldError{
				Loc:  []string{"body", f.name},
				Msg:  "Input should be a valid integer, got a number with a fractional part",
				Type: "int_from_float",
			})
		}
	}
	return out
}

// FieldError describes one rejected field of a request body.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is returned when a request body does not match the
// LoanInput schema.
type ValidationError []FieldError

func (e ValidationError) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = strings.Join(fe.Loc, ".") + ": " + fe.Msg
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var invalidJSON = ValidationError{{
	Loc:  []string{"body"},
	Msg:  "JSON decode error",
	Type: "json_invalid",
}}

// decodePredictRequest reads and validates a LoanInput body. Type and
// presence failures come back as ValidationError; other errors (such as an
// oversized body) are returned as-is.
func decodePredictRequest(body io.Reader) (domain.LoanInput, error) {
	dec := json.NewDecoder(body)

	var req predictRequest
	if err := dec.Decode(&req); err != nil {
		return domain.LoanInput{}, decodeError(err)
	}

	// the body must hold exactly one JSON value
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.LoanInput{}, err
		}
		return domain.LoanInput{}, invalidJSON
	}

	var out ValidationError
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.LoanInput{}, err
		}
		for _, fe := range verrs {
			out = append(out, FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  "Field required",
				Type: "missing",
			})
		}
	}
	out = append(out, req.wholeNumberErrors()...)
	if len(out) > 0 {
		return domain.LoanInput{}, out
	}

	return req.toDomain(), nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return ValidationError{{
				Loc:  []string{"body"},
				Msg:  "Input should be a valid dictionary or object",
				Type: "model_attributes_type",
			}}
		}
		kind, msg := expectedType(typeErr.Type)
		if integerFields[typeErr.Field] {
			kind, msg = "int_type", "Input should be a valid integer"
		}
		return ValidationError{{
			Loc:  []string{"body", typeErr.Field},
			Msg:  msg,
			Type: kind,
		}}
	case errors.As(err, &syntaxErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return invalidJSON
	default:
		return err
	}
}

func expectedType(t reflect.Type) (string, string) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "type_error", "Input has an invalid type"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		return "int_type", "Input should be a valid integer"
	case reflect.Float64:
		return "float_type", "Input should be a valid number"
	case reflect.String:
		return "string_type", "Input should be a valid string"
	default:
		return "type_error", "Input has an invalid type"
	}
}
