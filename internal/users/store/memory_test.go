package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/shandysiswandi/faultline/internal/users/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *InMemoryStore, users ...entity.User) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, s.Create(context.Background(), u))
	}
}

func TestInMemoryStore_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	seed(t, s, entity.User{ID: 1, Email: "ann@example.com"})

	err := s.Create(context.Background(), entity.User{ID: 2, Email: "ann@example.com"})
	require.Error(t, err)

	var stErr *pkgerror.StorageError
	require.True(t, errors.As(err, &stErr))
	assert.Equal(t, pkgerror.CodeUniqueViolation, stErr.Code)
	assert.Equal(t, []string{"email"}, stErr.Meta["target"])

	perr, ok := pkgerror.Translate(err)
	require.True(t, ok)
	assert.Equal(t, pkgerror.KindConflict, perr.Kind())
	assert.Equal(t, "email already exists", perr.Msg())
	assert.Equal(t, "email", perr.Field())
}

func TestInMemoryStore_Create_DuplicateID(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	seed(t, s, entity.User{ID: 1, Email: "ann@example.com"})

	perr, ok := pkgerror.Translate(s.Create(context.Background(), entity.User{ID: 1, Email: "bob@example.com"}))
	require.True(t, ok)
	assert.Equal(t, "id already exists", perr.Msg())
}

func TestInMemoryStore_Get(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	seed(t, s, entity.User{ID: 7, Email: "ann@example.com", Name: "Ann"})

	got, err := s.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	_, err = s.Get(context.Background(), 8)
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)
}

func TestInMemoryStore_List_Pagination(t *testing.T) {
	t.Parallel()

	s := NewInMemoryStore()
	seed(t, s,
		entity.User{ID: 3, Email: "c@example.com"},
		entity.User{ID: 1, Email: "a@example.com"},
		entity.User{ID: 2, Email: "b@example.com"},
	)

	users, total, err := s.List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, int64(2), users[1].ID)

	users, _, err = s.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(3), users[0].ID)

	users, total, err = s.List(context.Background(), 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, users)

	_, _, err = s.List(context.Background(), math.MinInt, 2)
	perr, ok := pkgerror.As(err)
	require.True(t, ok)
	assert.Equal(t, pkgerror.KindValidation, perr.Kind())
	assert.Equal(t, "page", perr.Field())
}

func TestInMemoryStore_Update(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewInMemoryStore()
	seed(t, s,
		entity.User{ID: 1, Email: "ann@example.com"},
		entity.User{ID: 2, Email: "bob@example.com"},
	)

	require.NoError(t, s.Update(ctx, entity.User{ID: 1, Email: "anna@example.com"}))
	// the old address is free again
	require.NoError(t, s.Create(ctx, entity.User{ID: 3, Email: "ann@example.com"}))

	perr, ok := pkgerror.Translate(s.Update(ctx, entity.User{ID: 2, Email: "anna@example.com"}))
	require.True(t, ok)
	assert.Equal(t, pkgerror.KindConflict, perr.Kind())

	perr, ok = pkgerror.Translate(s.Update(ctx, entity.User{ID: 42, Email: "x@example.com"}))
	require.True(t, ok)
	assert.Equal(t, pkgerror.KindNotFound, perr.Kind())
	assert.Equal(t, "Resource not found", perr.Msg())
}

func TestInMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewInMemoryStore()
	seed(t, s, entity.User{ID: 1, Email: "ann@example.com"})

	require.NoError(t, s.Delete(ctx, 1))
	require.NoError(t, s.Create(ctx, entity.User{ID: 2, Email: "ann@example.com"}))

	var stErr *pkgerror.StorageError
	require.True(t, errors.As(s.Delete(ctx, 1), &stErr))
	assert.Equal(t, pkgerror.CodeRecordNotFound, stErr.Code)
}

func TestInMemoryStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewInMemoryStore().Create(ctx, entity.User{ID: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
