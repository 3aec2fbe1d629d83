package forms

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]Form

	// Owners maps user id to (name, email) for the admin join.
	Owners map[int64][2]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		byID:   make(map[int64]Form),
		Owners: make(map[int64][2]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, f *Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if f.Skills == nil {
		f.Skills = []string{}
	}
	r.byID[f.ID] = *f
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Form{}
	for _, f := range r.byID {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) GetForUser(ctx context.Context, id, userID int64) (*Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, ErrNotFound
	}
	out := f
	return &out, nil
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Form{}
	for _, f := range r.byID {
		r.attachOwner(&f)
		out = append(out, f)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (*Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.attachOwner(&f)
	out := f
	return &out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, f *Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[f.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *f
	updated.UserID = existing.UserID
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	if updated.Skills == nil {
		updated.Skills = []string{}
	}
	r.byID[f.ID] = updated
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *MemoryRepo) attachOwner(f *Form) {
	if owner, ok := r.Owners[f.UserID]; ok {
		f.UserName = owner[0]
		f.UserEmail = owner[1]
	}
}

func sortNewestFirst(forms []Form) {
	sort.Slice(forms, func(i, j int) bool {
		if forms[i].CreatedAt.Equal(forms[j].CreatedAt) {
			return forms[i].ID > forms[j].ID
		}
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})
}
