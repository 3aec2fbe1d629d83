package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"forms-platform/internal/audit"
	"forms-platform/internal/auth"
	"forms-platform/internal/rbac"
	"forms-platform/pkg/logger"
)

var (
	// ErrValidation: a required field is empty.
	ErrValidation = errors.New("missing required field")

	// ErrInvalidCredentials deliberately collapses "unknown email"
	// and "wrong password"; the two cases must stay byte-identical
	// on the wire to resist account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service orchestrates registration, login and identity lookup.
// It owns no state of its own; every decision is a function of the
// request and a point-in-time read of storage.
type Service struct {
	repo   Repository
	tokens *auth.Manager
	hasher *auth.PasswordHasher
	audit  *audit.Service
	clock  func() time.Time
}

func NewService(repo Repository, tokens *auth.Manager, hasher *auth.PasswordHasher, auditSvc *audit.Service) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		audit:  auditSvc,
		clock:  time.Now,
	}
}

// Register creates a standard-role account and issues its first token.
//
// The email pre-check keeps the common duplicate path on the same
// response as the original flow; the storage unique constraint covers
// the race where two registrations pass the pre-check concurrently.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, PublicUser, error) {
	if name == "" || email == "" || password == "" {
		return "", PublicUser{}, ErrValidation
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return "", PublicUser{}, ErrDuplicateEmail
	}
	if !errors.Is(err, ErrNotFound) {
		return "", PublicUser{}, fmt.Errorf("email lookup: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         rbac.RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return "", PublicUser{}, err
	}

	token, err := s.tokens.Issue(s.clock(), u.ID, u.Email, u.Role)
	if err != nil {
		return "", PublicUser{}, fmt.Errorf("issue token: %w", err)
	}

	s.record(ctx, audit.EventKindRegistered, u.ID, u.Email)
	return token, u.Public(), nil
}

// Login verifies credentials and issues a fresh token. Each login
// issues an independent token; concurrently valid tokens per account
// are normal.
func (s *Service) Login(ctx context.Context, email, password string) (string, PublicUser, error) {
	if email == "" || password == "" {
		return "", PublicUser{}, ErrValidation
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.record(ctx, audit.EventKindLoginFailed, 0, email)
			return "", PublicUser{}, ErrInvalidCredentials
		}
		return "", PublicUser{}, fmt.Errorf("email lookup: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		s.record(ctx, audit.EventKindLoginFailed, u.ID, email)
		return "", PublicUser{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(s.clock(), u.ID, u.Email, u.Role)
	if err != nil {
		return "", PublicUser{}, fmt.Errorf("issue token: %w", err)
	}

	s.record(ctx, audit.EventKindLogin, u.ID, email)
	return token, u.Public(), nil
}

// GetByID re-fetches the account's current public fields. A valid
// token whose account has since been deleted yields ErrNotFound:
// claims are a snapshot at issuance, not a live view.
func (s *Service) GetByID(ctx context.Context, id int64) (PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PublicUser{}, err
	}
	return u.PublicWithCreatedAt(), nil
}

// record is best-effort: audit failures are logged, never propagated.
func (s *Service) record(ctx context.Context, kind audit.EventKind, actorID int64, email string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogAuth(ctx, kind, actorID, email); err != nil {
		logger.From(ctx).Warn("audit append failed", "kind", string(kind), "err", err)
	}
}
