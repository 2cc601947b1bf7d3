package pkgerror

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateUniqueViolation(t *testing.T) {
	// same input, same output
	for range 3 {
		src := &StorageError{Code: CodeUniqueViolation, Meta: map[string]any{"target": []string{"email"}}}
		got, ok := Translate(src)
		require.True(t, ok)
		assert.Equal(t, KindConflict, got.Kind())
		assert.Equal(t, "email already exists", got.Msg())
		assert.Equal(t, "email", got.Field())
		assert.Same(t, error(src), got.Cause())
	}
}

func TestTranslateUniqueViolationTargets(t *testing.T) {
	tests := []struct {
		name string
		meta map[string]any
		want string
	}{
		{name: "string", meta: map[string]any{"target": "username"}, want: "username already exists"},
		{name: "any slice", meta: map[string]any{"target": []any{"email"}}, want: "email already exists"},
		{name: "composite", meta: map[string]any{"target": []string{"org", "slug"}}, want: "org, slug already exists"},
		{name: "missing", meta: nil, want: "field already exists"},
		{name: "empty", meta: map[string]any{"target": []string{}}, want: "field already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(&StorageError{Code: CodeUniqueViolation, Meta: tt.meta})
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Msg())
		})
	}
}

func TestTranslateRecordNotFound(t *testing.T) {
	for _, src := range []error{
		&StorageError{Code: CodeRecordNotFound},
		pgx.ErrNoRows,
		ErrNotFound,
		fmt.Errorf("get user: %w", sql.ErrNoRows),
	} {
		got, ok := Translate(src)
		require.True(t, ok, src.Error())
		assert.Equal(t, KindNotFound, got.Kind())
		assert.Equal(t, "Resource not found", got.Msg())
		assert.True(t, errors.Is(got, src))
	}
}

func TestTranslateForeignKey(t *testing.T) {
	got, ok := Translate(&StorageError{Code: CodeForeignKeyViolation})
	require.True(t, ok)
	assert.Equal(t, KindValidation, got.Kind())
	assert.Equal(t, "Invalid reference", got.Msg())
}

func TestTranslatePgError(t *testing.T) {
	unique := &pgconn.PgError{
		Code:           CodeUniqueViolation,
		Detail:         "Key (email)=(a@b.c) already exists.",
		ConstraintName: "users_email_key",
	}
	got, ok := Translate(fmt.Errorf("insert user: %w", unique))
	require.True(t, ok)
	assert.Equal(t, "email already exists", got.Msg())

	column := &pgconn.PgError{Code: CodeUniqueViolation, ColumnName: "username"}
	got, ok = Translate(column)
	require.True(t, ok)
	assert.Equal(t, "username already exists", got.Msg())

	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}
	got, ok = Translate(fk)
	require.True(t, ok)
	assert.Equal(t, KindValidation, got.Kind())
}

func TestTranslateUnknownPassesThrough(t *testing.T) {
	for _, src := range []error{
		nil,
		errors.New("boom"),
		&pgconn.PgError{Code: "22P02"},
		&StorageError{Code: "XX000"},
	} {
		_, ok := Translate(src)
		assert.False(t, ok)
		assert.Equal(t, src, TranslateOrPass(src))
	}
}
