package apierror

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	DoctorID string `validate:"required,uuid"`
	Date     string `validate:"required"`
}

func TestFromValidationErrorListsFields(t *testing.T) {
	err := validator.New().Struct(&sampleRequest{DoctorID: "nope"})
	require.Error(t, err)

	resp := FromValidationError(err)
	assert.Equal(t, http.StatusBadRequest, resp.Code())

	simple, ok := resp.(*SimpleError)
	require.True(t, ok)
	assert.ElementsMatch(t, []FieldError{
		{Field: "DoctorID", Rule: "uuid"},
		{Field: "Date", Rule: "required"},
	}, simple.Errors)
}

func TestFromValidationErrorWithPlainError(t *testing.T) {
	resp := FromValidationError(assert.AnError)
	assert.Equal(t, http.StatusBadRequest, resp.Code())
	assert.Equal(t, "Invalid request", resp.Error())
}

func TestSimpleErrorJSONShape(t *testing.T) {
	raw, err := json.Marshal(DataSourceError)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Failed to load availability data"}`, string(raw))
	assert.Equal(t, http.StatusInternalServerError, DataSourceError.Code())
}

func TestParamErrors(t *testing.T) {
	assert.Equal(t, "Missing required parameter: date", NewMissingParamError("date").Message)
	assert.Equal(t, "Parameter id must be of type uuid", NewInvalidParamTypeError("id", "uuid").Message)
}
