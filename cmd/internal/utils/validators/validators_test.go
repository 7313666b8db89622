package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type probe struct {
	Time     string `validate:"hhmm"`
	Date     string `validate:"isodate"`
	Status   string `validate:"apptstatus"`
	Decision string `validate:"approval"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestCustomTagsAccept(t *testing.T) {
	err := newValidate().Struct(&probe{
		Time:     "09:30:00",
		Date:     "2025-06-02",
		Status:   "no_show",
		Decision: "approved",
	})
	assert.NoError(t, err)
}

func TestCustomTagsReject(t *testing.T) {
	err := newValidate().Struct(&probe{
		Time:     "25:00",
		Date:     "2025-02-30",
		Status:   "booked",
		Decision: "pending",
	})
	verrs, ok := err.(validator.ValidationErrors)
	if assert.True(t, ok) {
		assert.Len(t, verrs, 4)
	}
}
