package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgboundary"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/shandysiswandi/faultline/internal/users/entity"
	"github.com/shandysiswandi/faultline/internal/users/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type recordingNotifier struct {
	mu    sync.Mutex
	users []entity.User
}

func (n *recordingNotifier) UserCreated(_ context.Context, user entity.User) {
	n.mu.Lock()
	n.users = append(n.users, user)
	n.mu.Unlock()
}

type failingStore struct {
	Store
	err error
}

func (s failingStore) List(context.Context, int, int) ([]entity.User, int, error) {
	return nil, 0, s.err
}

var now = time.Date(2026, 3, 14, 2, 26, 53, 0, time.UTC)

func newTestUsecase(t *testing.T) (*Usecase, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return New(Dependency{
		Store:    store.NewInMemoryStore(),
		Notifier: n,
		Clock:    fixedClock{t: now},
		ID:       &seqID{},
	}), n
}

func requireKind(t *testing.T, err error, kind pkgerror.Kind) *pkgerror.Error {
	t.Helper()
	require.Error(t, err)
	perr := pkgboundary.New(pkgboundary.Options{}).Classify(err)
	require.Equal(t, kind, perr.Kind(), "got %s", perr)
	return perr
}

func TestUsecase_Create(t *testing.T) {
	t.Parallel()

	u, n := newTestUsecase(t)
	user, err := u.Create(context.Background(), CreateInput{Email: "  Ann@Example.COM ", Name: " Ann "})
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, now, user.CreatedAt)
	require.Len(t, n.users, 1)
	assert.Equal(t, user, n.users[0])
}

func TestUsecase_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	u, n := newTestUsecase(t)
	ctx := context.Background()
	_, err := u.Create(ctx, CreateInput{Email: "ann@example.com", Name: "Ann"})
	require.NoError(t, err)

	_, err = u.Create(ctx, CreateInput{Email: "ANN@example.com", Name: "Other Ann"})

	// the usecase leaves classification to the boundary
	_, isDomain := pkgerror.As(err)
	assert.False(t, isDomain)

	perr := requireKind(t, err, pkgerror.KindConflict)
	assert.Equal(t, "email already exists", perr.Msg())
	assert.Equal(t, "email", perr.Field())
	assert.Equal(t, 409, perr.StatusCode())
	assert.Len(t, n.users, 1)
}

func TestUsecase_Create_Validation(t *testing.T) {
	t.Parallel()

	u, n := newTestUsecase(t)

	tests := []struct {
		name  string
		in    CreateInput
		field string
		msg   string
	}{
		{"missing email", CreateInput{Name: "Ann"}, "email", "email is required"},
		{"bad email", CreateInput{Email: "ann", Name: "Ann"}, "email", "email must be a valid email address"},
		{"blank name", CreateInput{Email: "ann@example.com", Name: "   "}, "name", "name is required"},
		{"short name", CreateInput{Email: "ann@example.com", Name: "A"}, "name", "name must be at least 2 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.Create(context.Background(), tt.in)
			perr := requireKind(t, err, pkgerror.KindValidation)
			assert.Equal(t, tt.field, perr.Field())
			assert.Equal(t, tt.msg, perr.Msg())
		})
	}
	assert.Empty(t, n.users)
}

func TestUsecase_Create_MissingDependency(t *testing.T) {
	t.Parallel()

	_, err := New(Dependency{}).Create(context.Background(), CreateInput{Email: "ann@example.com", Name: "Ann"})
	perr := requireKind(t, err, pkgerror.KindInternal)
	assert.Equal(t, "Internal Server Error", perr.Msg())
}

func TestUsecase_Get(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t)
	ctx := context.Background()
	created, err := u.Create(ctx, CreateInput{Email: "ann@example.com", Name: "Ann"})
	require.NoError(t, err)

	got, err := u.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = u.Get(ctx, 404)
	perr := requireKind(t, err, pkgerror.KindNotFound)
	assert.Equal(t, "User not found", perr.Msg())
	assert.ErrorIs(t, err, pkgerror.ErrNotFound)
}

func TestUsecase_List(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t)
	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := u.Create(ctx, CreateInput{Email: email, Name: "Someone"})
		require.NoError(t, err)
	}

	res, err := u.List(ctx, ListInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.PageSize)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.Users, 3)

	res, err = u.List(ctx, ListInput{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "c@example.com", res.Users[0].Email)

	res, err = u.List(ctx, ListInput{Page: 1, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, res.PageSize)

	_, err = u.List(ctx, ListInput{Page: -1})
	perr := requireKind(t, err, pkgerror.KindValidation)
	assert.Equal(t, "page", perr.Field())
	assert.Equal(t, "page must be at least 1", perr.Msg())
}

func TestUsecase_List_PageOverflow(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t)

	_, err := u.List(context.Background(), ListInput{Page: math.MaxInt/2 + 1, PageSize: 2})
	perr := requireKind(t, err, pkgerror.KindValidation)
	assert.Equal(t, "page", perr.Field())
	assert.Equal(t, "page is out of range", perr.Msg())

	res, err := u.List(context.Background(), ListInput{Page: math.MaxInt / 100, PageSize: 100})
	require.NoError(t, err)
	assert.Empty(t, res.Users)
}

func TestUsecase_List_StoreFailure(t *testing.T) {
	t.Parallel()

	u := New(Dependency{Store: failingStore{err: errors.New("connection reset by peer")}})
	_, err := u.List(context.Background(), ListInput{})

	perr := requireKind(t, err, pkgerror.KindInternal)
	assert.Equal(t, "Internal Server Error", perr.Msg())
	assert.EqualError(t, perr.Cause(), "connection reset by peer")
}

func TestUsecase_Update(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t)
	ctx := context.Background()
	ann, err := u.Create(ctx, CreateInput{Email: "ann@example.com", Name: "Ann"})
	require.NoError(t, err)
	bob, err := u.Create(ctx, CreateInput{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	name := "Annabel"
	got, err := u.Update(ctx, ann.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Annabel", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)

	taken := "ANN@example.com"
	_, err = u.Update(ctx, bob.ID, UpdateInput{Email: &taken})
	perr := requireKind(t, err, pkgerror.KindConflict)
	assert.Equal(t, "email already exists", perr.Msg())

	bad := "nope"
	_, err = u.Update(ctx, bob.ID, UpdateInput{Email: &bad})
	perr = requireKind(t, err, pkgerror.KindValidation)
	assert.Equal(t, "email", perr.Field())

	_, err = u.Update(ctx, 999, UpdateInput{Name: &name})
	perr = requireKind(t, err, pkgerror.KindNotFound)
	assert.Equal(t, "User not found", perr.Msg())
}

func TestUsecase_Delete(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t)
	ctx := context.Background()
	ann, err := u.Create(ctx, CreateInput{Email: "ann@example.com", Name: "Ann"})
	require.NoError(t, err)

	require.NoError(t, u.Delete(ctx, ann.ID))

	err = u.Delete(ctx, ann.ID)
	perr := requireKind(t, err, pkgerror.KindNotFound)
	assert.Equal(t, "User not found", perr.Msg())

	var stErr *pkgerror.StorageError
	assert.True(t, errors.As(err, &stErr))
}
