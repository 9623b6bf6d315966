package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Type  string `json:"type" validate:"required,oneof=move reset"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type move"`
	Note  string `validate:"max=3"`
}

func TestDescribe(t *testing.T) {
	err := GetValidator().Struct(sample{Type: "move", Note: "too long"})
	require.Error(t, err)
	assert.Equal(t, "index failed required_if; Note failed max", Describe(err))

	err = GetValidator().Struct(sample{Type: "jump"})
	require.Error(t, err)
	assert.Equal(t, "type failed oneof", Describe(err))
}

func TestDescribePassesOtherErrors(t *testing.T) {
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}

func TestValidStruct(t *testing.T) {
	i := 4
	assert.NoError(t, GetValidator().Struct(sample{Type: "move", Index: &i}))
	assert.NoError(t, GetValidator().Struct(sample{Type: "reset"}))
}
