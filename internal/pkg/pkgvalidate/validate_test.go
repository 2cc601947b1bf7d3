package pkgvalidate

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Email string  `json:"email" validate:"required,email"`
	Name  string  `json:"name,omitempty" validate:"required,min=2,max=8"`
	Age   int     `json:"age" validate:"min=0,max=150"`
	Role  string  `json:"role" validate:"omitempty,oneof=admin member"`
	Note  *string `json:"-" validate:"omitempty,alpha"`
}

func TestStruct(t *testing.T) {
	v := New()
	bad := "x1"

	tests := []struct {
		name      string
		in        payload
		wantMsg   string
		wantField string
	}{
		{
			name:      "missing email",
			in:        payload{Name: "ann"},
			wantMsg:   "email is required",
			wantField: "email",
		},
		{
			name:      "bad email",
			in:        payload{Email: "nope", Name: "ann"},
			wantMsg:   "email must be a valid email address",
			wantField: "email",
		},
		{
			name:      "short name",
			in:        payload{Email: "a@b.co", Name: "a"},
			wantMsg:   "name must be at least 2 characters",
			wantField: "name",
		},
		{
			name:      "long name",
			in:        payload{Email: "a@b.co", Name: "abcdefghij"},
			wantMsg:   "name must be at most 8 characters",
			wantField: "name",
		},
		{
			name:      "numeric max",
			in:        payload{Email: "a@b.co", Name: "ann", Age: 200},
			wantMsg:   "age must be at most 150",
			wantField: "age",
		},
		{
			name:      "oneof",
			in:        payload{Email: "a@b.co", Name: "ann", Role: "root"},
			wantMsg:   "role must be one of [admin member]",
			wantField: "role",
		},
		{
			name:      "untagged name falls back to struct field",
			in:        payload{Email: "a@b.co", Name: "ann", Note: &bad},
			wantMsg:   "Note is invalid",
			wantField: "Note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)

			perr, ok := pkgerror.As(err)
			require.True(t, ok)
			assert.Equal(t, pkgerror.KindValidation, perr.Kind())
			assert.Equal(t, 400, perr.StatusCode())
			assert.Equal(t, tt.wantMsg, perr.Msg())
			assert.Equal(t, tt.wantField, perr.Field())

			var verrs validator.ValidationErrors
			assert.True(t, errors.As(perr, &verrs))
		})
	}
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, New().Struct(payload{Email: "a@b.co", Name: "ann", Role: "admin"}))
}

func TestStructNotAStruct(t *testing.T) {
	err := New().Struct(42)

	perr, ok := pkgerror.As(err)
	require.True(t, ok)
	assert.Equal(t, pkgerror.KindInternal, perr.Kind())
	assert.Equal(t, "Internal Server Error", perr.Msg())
}
