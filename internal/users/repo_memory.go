package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, byID: make(map[int64]User)}
}

func (r *MemoryRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	u.ID = r.nextID
	r.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.byID[u.ID] = *u
	return nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

// Delete removes an account; used by tests that exercise the
// valid-token-deleted-account path.
func (r *MemoryRepo) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}
