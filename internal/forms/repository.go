package forms

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("form not found")

// Repository is the persistence contract for form submissions.
//
// User-scoped reads take the owner's id so scoping happens in the
// query itself; a user asking for someone else's form is
// indistinguishable from asking for a form that does not exist.
// Admin reads join the owner's name and email.
type Repository interface {
	Create(ctx context.Context, f *Form) error

	ListByUser(ctx context.Context, userID int64) ([]Form, error)
	GetForUser(ctx context.Context, id, userID int64) (*Form, error)

	ListAll(ctx context.Context) ([]Form, error)
	Get(ctx context.Context, id int64) (*Form, error)
	Update(ctx context.Context, f *Form) error
	Delete(ctx context.Context, id int64) error
}
