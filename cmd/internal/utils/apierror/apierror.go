package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes. Routes render it
// with c.JSON(err.Code(), err).
type ErrorResponse interface {
	error
	Code() int
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

type SimpleError struct {
	Status  int          `json:"-"`
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (s *SimpleError) Error() string {
	return s.Message
}

func (s *SimpleError) Code() int {
	return s.Status
}

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Message: message}
}

var (
	InternalServerError          = NewSimple(http.StatusInternalServerError, "Internal server error")
	DataSourceError              = NewSimple(http.StatusInternalServerError, "Failed to load availability data")
	MalformedBodyError           = NewSimple(http.StatusBadRequest, "Malformed request body")
	InvalidDateFormatError       = NewSimple(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	InvalidTimeFormatError       = NewSimple(http.StatusBadRequest, "Invalid time, expected HH:MM")
	InvalidModeError             = NewSimple(http.StatusBadRequest, "Invalid mode, expected clinic or home_visit")
	InvalidAuthTokenError        = NewSimple(http.StatusUnauthorized, "Invalid or missing authorization token")
	ForbiddenError               = NewSimple(http.StatusForbidden, "You are not allowed to perform this action")
	NotFoundError                = NewSimple(http.StatusNotFound, "Resource not found")
	DoctorNotBookableError       = NewSimple(http.StatusConflict, "Doctor is not accepting appointments")
	AppointmentInPastError       = NewSimple(http.StatusBadRequest, "Appointment must be in the future")
	MomentNotAvailable           = NewSimple(http.StatusConflict, "The requested time is not available")
	InvalidStatusTransitionError = NewSimple(http.StatusConflict, "Status transition is not allowed")
	DoctorAlreadyRegisteredError = NewSimple(http.StatusConflict, "A doctor profile already exists for this account")
	CenterNotBookableError       = NewSimple(http.StatusBadRequest, "Center does not exist or is not approved")
)

func NewMissingParamError(name string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter: %s", name))
}

func NewInvalidParamTypeError(name, expected string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter %s must be of type %s", name, expected))
}

// FromValidationError flattens validator errors into a 400 response
// listing every failing field.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewSimple(http.StatusBadRequest, "Invalid request")
	}

	resp := NewSimple(http.StatusBadRequest, "Invalid request")
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		resp.Errors = append(resp.Errors, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		fields = append(fields, fe.Field())
	}
	resp.Message = "Invalid request: " + strings.Join(fields, ", ")
	return resp
}
