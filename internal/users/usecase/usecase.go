package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/shandysiswandi/faultline/internal/pkg/pkguid"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgvalidate"
	"github.com/shandysiswandi/faultline/internal/users/entity"
)

// Store persists users. Implementations return their native failures
// (storage codes, pg errors, pkgerror.ErrNotFound) and leave classification
// to the caller.
type Store interface {
	Create(ctx context.Context, user entity.User) error
	Get(ctx context.Context, id int64) (entity.User, error)
	List(ctx context.Context, offset, limit int) ([]entity.User, int, error)
	Update(ctx context.Context, user entity.User) error
	Delete(ctx context.Context, id int64) error
}

type Notifier interface {
	UserCreated(ctx context.Context, user entity.User)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store     Store
	Notifier  Notifier
	Clock     Clock
	ID        pkguid.NumberID
	Validator *pkgvalidate.Validator
}

type Usecase struct {
	store    Store
	notifier Notifier
	clock    Clock
	id       pkguid.NumberID
	validate *pkgvalidate.Validator
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	validate := dep.Validator
	if validate == nil {
		validate = pkgvalidate.New()
	}

	return &Usecase{
		store:    dep.Store,
		notifier: dep.Notifier,
		clock:    clock,
		id:       dep.ID,
		validate: validate,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (entity.User, error) {
	if u.store == nil || u.id == nil {
		return entity.User{}, pkgerror.NewInternal(errors.New("missing dependency"))
	}

	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := u.validate.Struct(in); err != nil {
		return entity.User{}, err
	}

	now := u.clock.Now().UTC()
	user := entity.User{
		ID:        u.id.Generate(),
		Email:     in.Email,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// A duplicate email comes back as a raw storage failure and is
	// classified at the boundary.
	if err := u.store.Create(ctx, user); err != nil {
		return entity.User{}, err
	}

	if u.notifier != nil {
		u.notifier.UserCreated(ctx, user)
	}

	return user, nil
}

func (u *Usecase) Get(ctx context.Context, id int64) (entity.User, error) {
	user, err := u.store.Get(ctx, id)
	if err != nil {
		return entity.User{}, mapStoreErr(err)
	}

	return user, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) (ListResult, error) {
	if in.Page == 0 {
		in.Page = 1
	}
	if in.PageSize == 0 {
		in.PageSize = defaultPageSize
	}
	if err := u.validate.Struct(in); err != nil {
		return ListResult{}, err
	}
	in.PageSize = min(in.PageSize, maxPageSize)
	if in.Page > math.MaxInt/in.PageSize {
		return ListResult{}, pkgerror.NewValidation("page is out of range", "page")
	}

	users, total, err := u.store.List(ctx, (in.Page-1)*in.PageSize, in.PageSize)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Users:    users,
		Page:     in.Page,
		PageSize: in.PageSize,
		Total:    total,
	}, nil
}

func (u *Usecase) Update(ctx context.Context, id int64, in UpdateInput) (entity.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := u.validate.Struct(in); err != nil {
		return entity.User{}, err
	}

	user, err := u.store.Get(ctx, id)
	if err != nil {
		return entity.User{}, mapStoreErr(err)
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	user.UpdatedAt = u.clock.Now().UTC()

	if err := u.store.Update(ctx, user); err != nil {
		return entity.User{}, mapStoreErr(err)
	}

	return user, nil
}

func (u *Usecase) Delete(ctx context.Context, id int64) error {
	if err := u.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	return nil
}

// mapStoreErr names the resource on a missing-record failure. Other failures
// are returned as they are.
func mapStoreErr(err error) error {
	if perr, ok := pkgerror.Translate(err); ok && perr.Kind() == pkgerror.KindNotFound {
		return pkgerror.Wrap(err, pkgerror.KindNotFound, "User not found")
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
