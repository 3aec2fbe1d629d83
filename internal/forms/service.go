package forms

import (
	"context"
	"errors"

	"forms-platform/internal/audit"
	"forms-platform/pkg/logger"
)

// ErrValidation: full name or email missing on submission.
var ErrValidation = errors.New("full name and email are required")

// Service owns form business rules. User operations are scoped to the
// caller's identity from the request context; admin operations are
// unscoped and expected to sit behind the admin role gate.
type Service struct {
	repo  Repository
	audit *audit.Service
}

func NewService(repo Repository, auditSvc *audit.Service) *Service {
	return &Service{repo: repo, audit: auditSvc}
}

// Create stores a new submission owned by userID.
func (s *Service) Create(ctx context.Context, userID int64, f Form) (int64, error) {
	if f.FullName == "" || f.Email == "" {
		return 0, ErrValidation
	}
	f.UserID = userID
	f.Status = StatusSubmitted
	if err := s.repo.Create(ctx, &f); err != nil {
		return 0, err
	}
	return f.ID, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]Form, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetMine returns the form only if userID owns it. Another user's
// form and a nonexistent form are both ErrNotFound.
func (s *Service) GetMine(ctx context.Context, id, userID int64) (*Form, error) {
	return s.repo.GetForUser(ctx, id, userID)
}

func (s *Service) AdminList(ctx context.Context) ([]Form, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) AdminGet(ctx context.Context, id int64) (*Form, error) {
	return s.repo.Get(ctx, id)
}

// AdminUpdate overwrites every editable field of the form.
func (s *Service) AdminUpdate(ctx context.Context, actorID int64, f Form) error {
	if err := s.repo.Update(ctx, &f); err != nil {
		return err
	}
	s.record(ctx, audit.EventKindAdminFormUpdate, actorID, f.ID)
	return nil
}

func (s *Service) AdminDelete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, audit.EventKindAdminFormDelete, actorID, id)
	return nil
}

func (s *Service) record(ctx context.Context, kind audit.EventKind, actorID, formID int64) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogAdminFormChange(ctx, kind, actorID, formID); err != nil {
		logger.From(ctx).Warn("audit append failed", "kind", string(kind), "err", err)
	}
}
