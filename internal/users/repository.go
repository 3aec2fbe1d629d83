package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository is the persistence contract for accounts.
//
// Email matching is exact: no case folding or trimming happens at
// this layer, and uniqueness is enforced by the storage backend so
// concurrent registrations cannot both win.
type Repository interface {
	// Create inserts the account and fills in ID and CreatedAt.
	// A uniqueness conflict on email returns ErrDuplicateEmail.
	Create(ctx context.Context, u *User) error

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
