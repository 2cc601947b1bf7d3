package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/shandysiswandi/faultline/internal/users/entity"
)

// errNegativeWindow rejects a page window that cannot address any row.
var errNegativeWindow = pkgerror.NewValidation("page is out of range", "page")

// InMemoryStore keeps users in process. It reports failures the way a
// relational store would, as storage codes with metadata.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[int64]entity.User
	byEmail map[string]int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[int64]entity.User),
		byEmail: make(map[string]int64),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, user entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return uniqueViolation("id")
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return uniqueViolation("email")
	}

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID

	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, id int64) (entity.User, error) {
	if err := ctx.Err(); err != nil {
		return entity.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return entity.User{}, pkgerror.ErrNotFound
	}

	return user, nil
}

func (s *InMemoryStore) List(ctx context.Context, offset, limit int) ([]entity.User, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if offset < 0 || limit < 0 {
		return nil, 0, errNegativeWindow
	}

	s.mu.RLock()
	all := make([]entity.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, user)
	}
	s.mu.RUnlock()

	// Snowflake IDs grow with time, so this is creation order.
	slices.SortFunc(all, func(a, b entity.User) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	total := len(all)
	if offset >= total {
		return []entity.User{}, total, nil
	}

	return all[offset:min(offset+limit, total)], total, nil
}

func (s *InMemoryStore) Update(ctx context.Context, user entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.users[user.ID]
	if !ok {
		return recordNotFound("update")
	}
	if owner, taken := s.byEmail[user.Email]; taken && owner != user.ID {
		return uniqueViolation("email")
	}

	delete(s.byEmail, prev.Email)
	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID

	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return recordNotFound("delete")
	}

	delete(s.users, id)
	delete(s.byEmail, user.Email)

	return nil
}

func uniqueViolation(field string) error {
	return &pkgerror.StorageError{
		Code: pkgerror.CodeUniqueViolation,
		Meta: map[string]any{"target": []string{field}},
		Err:  fmt.Errorf("unique constraint failed on the fields: (`%s`)", field),
	}
}

func recordNotFound(op string) error {
	return &pkgerror.StorageError{
		Code: pkgerror.CodeRecordNotFound,
		Meta: map[string]any{"cause": fmt.Sprintf("Record to %s not found.", op)},
	}
}
