package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper with the cash book
// rules registered.
func NewValidationHelper() *ValidationHelper {
	v := validator.New()

	// Decimals reach the validator as their canonical string form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterValidation("decimalgte0", validateDecimalGTE0)
	v.RegisterStructValidation(validateEntryAmounts, EntryInput{})

	return &ValidationHelper{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

func validateDecimalGTE0(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// validateEntryAmounts requires exactly one side of an entry to carry an
// amount. AllowZero admits memo rows with neither.
func validateEntryAmounts(sl validator.StructLevel) {
	in := sl.Current().Interface().(EntryInput)
	hasCredit, hasDebit := !in.Credit.IsZero(), !in.Debit.IsZero()

	switch {
	case hasCredit && hasDebit:
		sl.ReportError(in.Debit, "Debit", "Debit", "excluded_with_credit", "")
	case !hasCredit && !hasDebit && !in.AllowZero:
		sl.ReportError(in.Credit, "Credit", "Credit", "required_credit_or_debit", "")
	}
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	var fieldErrs validator.ValidationErrors
	if errors.As(validationErr, &fieldErrs) {
		errorResp.Details = make(map[string]string)
		for _, err := range fieldErrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	} else if validationErr != nil {
		errorResp.Details = map[string]string{"error": validationErr.Error()}
	}

	json.NewEncoder(w).Encode(errorResp)
}
