package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email   string  `validate:"required,email"`
	MaxMark float64 `validate:"required,gt=0"`
	Level   string  `validate:"omitempty,oneof=lower_primary upper_primary"`
}

func TestStructValid(t *testing.T) {
	err := Struct(&sampleRequest{Email: "teacher@school.ac.ke", MaxMark: 50})
	assert.NoError(t, err)
}

func TestStructMessages(t *testing.T) {
	err := Struct(&sampleRequest{Email: "not-an-email", MaxMark: 0})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "maxmark")

	err = Struct(&sampleRequest{Email: "a@b.com", MaxMark: 10, Level: "bogus"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}
