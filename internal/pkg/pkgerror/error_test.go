package pkgerror

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatusCode(t *testing.T) {
	want := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindInternal:     http.StatusInternalServerError,
	}

	require.Len(t, Kinds(), len(want))
	for _, k := range Kinds() {
		assert.Equal(t, want[k], k.StatusCode(), k.String())
	}
	assert.Equal(t, http.StatusInternalServerError, Kind(99).StatusCode())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ERROR_KIND_VALIDATION", KindValidation.String())
	assert.Equal(t, "ERROR_KIND_CONFLICT", KindConflict.String())
	assert.Equal(t, "ERROR_KIND_INTERNAL", KindInternal.String())
	assert.Equal(t, "ERROR_KIND_INTERNAL", Kind(-1).String())
}

func TestNewInternalKeepsCauseOutOfMessage(t *testing.T) {
	root := errors.New("pq: connection refused on 10.0.0.4")
	err := NewInternal(root)

	assert.True(t, errors.Is(err, root))
	assert.Equal(t, KindInternal, err.Kind())
	assert.Equal(t, "Internal Server Error", err.Msg())
	assert.Equal(t, "Internal Server Error", err.Error())
	assert.Equal(t, root, err.Cause())
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "User not found", NewNotFound("User").Msg())
	assert.Equal(t, "Resource not found", NewNotFound("").Msg())
}

func TestMessageNeverEmpty(t *testing.T) {
	for _, k := range Kinds() {
		e := New(k, "")
		assert.NotEmpty(t, e.Msg(), k.String())
		assert.Equal(t, k.DefaultMessage(), e.Msg())
	}

	assert.Equal(t, "Conflict", NewConflict("").Msg())
}

func TestNewClampsUnknownKind(t *testing.T) {
	e := New(Kind(42), "odd")
	assert.Equal(t, KindInternal, e.Kind())
	assert.Equal(t, "odd", e.Msg())
}

func TestValidationCarriesField(t *testing.T) {
	e := NewValidation("email is invalid", "email")
	assert.Equal(t, KindValidation, e.Kind())
	assert.Equal(t, "email", e.Field())

	opt := New(KindValidation, "too short", WithField("name"), WithCause(errors.New("len 1")))
	assert.Equal(t, "name", opt.Field())
	assert.EqualError(t, opt.Cause(), "len 1")
}

func TestCopiesAreImmutable(t *testing.T) {
	root := errors.New("root")
	orig := New(KindConflict, "taken", WithCause(root))

	renamed := orig.WithMessage("email already exists")
	fielded := orig.WithField("email")

	assert.Equal(t, "taken", orig.Msg())
	assert.Empty(t, orig.Field())
	assert.Equal(t, "email already exists", renamed.Msg())
	assert.Equal(t, "email", fielded.Field())
	assert.Same(t, root, renamed.Cause())
	assert.Same(t, root, fielded.Cause())
}

func TestWrapPreservesOriginalCause(t *testing.T) {
	root := errors.New("disk full")
	inner := NewInternal(root)

	outer := Wrap(inner, KindConflict, "state changed")
	assert.Equal(t, KindConflict, outer.Kind())
	assert.Same(t, root, outer.Cause())
	assert.True(t, errors.Is(outer, root))

	plain := Wrap(root, KindForbidden, "")
	assert.Equal(t, "Forbidden", plain.Msg())
	assert.Same(t, root, plain.Cause())
}

func TestAs(t *testing.T) {
	e := NewForbidden("nope")
	got, ok := As(errors.Join(errors.New("x"), e))
	require.True(t, ok)
	assert.Same(t, e, got)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestErrorStringIncludesDetails(t *testing.T) {
	err := New(KindForbidden, "message", WithCause(errors.New("acl miss")))
	str := err.String()
	assert.True(t, strings.Contains(str, "ERROR_KIND_FORBIDDEN"), str)
	assert.True(t, strings.Contains(str, "message"), str)
	assert.True(t, strings.Contains(str, "acl miss"), str)
}

func TestNilErrorString(t *testing.T) {
	var e *Error
	assert.Equal(t, "<nil>", e.Error())
}
