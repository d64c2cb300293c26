package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationHelper_EntryInput(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid credit entry", func(t *testing.T) {
		in := input()
		assert.NoError(t, vh.ValidateStruct(&in))
	})

	t.Run("missing required fields", func(t *testing.T) {
		in := EntryInput{Credit: decimal.NewFromInt(5)}

		err := vh.ValidateStruct(&in)
		require.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 3) // Date, CompanyName, AccountName
	})

	t.Run("bad date format", func(t *testing.T) {
		in := input()
		in.Date = "15/03/2024"

		validationErrors := vh.ValidateStruct(&in).(validator.ValidationErrors)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "Date", validationErrors[0].Field())
		assert.Equal(t, "datetime", validationErrors[0].Tag())
	})

	t.Run("negative amount", func(t *testing.T) {
		in := input()
		in.Credit = decimal.NewFromInt(-10)

		validationErrors := vh.ValidateStruct(&in).(validator.ValidationErrors)
		require.NotEmpty(t, validationErrors)
		assert.Equal(t, "Credit", validationErrors[0].Field())
		assert.Equal(t, "decimalgte0", validationErrors[0].Tag())
	})

	t.Run("both sides set", func(t *testing.T) {
		in := input()
		in.Debit = decimal.NewFromInt(10)

		validationErrors := vh.ValidateStruct(&in).(validator.ValidationErrors)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "Debit", validationErrors[0].Field())
		assert.Equal(t, "excluded_with_credit", validationErrors[0].Tag())
	})

	t.Run("neither side set", func(t *testing.T) {
		in := input()
		in.Credit = decimal.Zero

		validationErrors := vh.ValidateStruct(&in).(validator.ValidationErrors)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "required_credit_or_debit", validationErrors[0].Tag())

		in.AllowZero = true
		assert.NoError(t, vh.ValidateStruct(&in))
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validation errors", func(t *testing.T) {
		vh := NewValidationHelper()
		invalid := EntryInput{Date: "bad", Credit: decimal.NewFromInt(1)}

		validationErr := vh.ValidateStruct(&invalid)
		assert.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Validation failed", response.Error)
		assert.Contains(t, response.Details, "Date")
		assert.Contains(t, response.Details, "CompanyName")
		assert.Contains(t, response.Details, "AccountName")
	})

	t.Run("plain error becomes a detail", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Invalid filter", http.StatusBadRequest, errors.New("invalid filter: unknown status"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "invalid filter: unknown status", response.Details["error"])
	})
}

func TestNewValidationHelper(t *testing.T) {
	vh := NewValidationHelper()
	assert.NotNil(t, vh)
	assert.NotNil(t, vh.validator)
}
