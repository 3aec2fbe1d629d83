package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records internal audit information.
//
// Audit is internal-only; these records are never exposed through the
// API. Callers should treat recording as best-effort and log failures
// rather than propagate them.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Kind == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogAuth records a registration or login outcome. email is the
// subject so failed attempts without an established identity are
// still traceable.
func (s *Service) LogAuth(ctx context.Context, kind EventKind, actorID int64, email string) error {
	return s.Append(ctx, Event{
		Kind:    kind,
		ActorID: actorID,
		Subject: email,
	})
}

// LogAdminFormChange records an admin mutating another user's form.
func (s *Service) LogAdminFormChange(ctx context.Context, kind EventKind, actorID, formID int64) error {
	return s.Append(ctx, Event{
		Kind:    kind,
		ActorID: actorID,
		Subject: fmt.Sprintf("form:%d", formID),
	})
}
