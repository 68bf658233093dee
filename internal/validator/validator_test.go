package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lessonForm struct {
	Name    string `json:"name" validate:"required"`
	Passing string `json:"passing" validate:"omitempty,is-passing-status"`
}

type profileForm struct {
	Role string `json:"role" validate:"omitempty,is-user-role"`
}

func TestValidator_PassingStatus(t *testing.T) {
	t.Parallel()

	v := New()

	assert.NoError(t, v.Validate(&lessonForm{Name: "Числа", Passing: "yes"}))
	assert.NoError(t, v.Validate(&lessonForm{Name: "Числа", Passing: "no"}))
	// Пустое значение пропускается, required его не требует
	assert.NoError(t, v.Validate(&lessonForm{Name: "Числа"}))

	err := v.Validate(&lessonForm{Name: "Числа", Passing: "maybe"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	// Ключи ошибок берутся из json-тегов
	assert.Contains(t, vErr.Errors, "passing")
}

func TestValidator_UserRole(t *testing.T) {
	t.Parallel()

	v := New()

	for _, role := range []string{"student", "teacher", "admin"} {
		assert.NoError(t, v.Validate(&profileForm{Role: role}), role)
	}

	err := v.Validate(&profileForm{Role: "superuser"})
	require.Error(t, err)
}

func TestValidator_RequiredUsesJSONTag(t *testing.T) {
	t.Parallel()

	v := New()

	err := v.Validate(&lessonForm{})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "name")
}
