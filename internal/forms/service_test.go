package forms

import (
	"context"
	"errors"
	"testing"

	"forms-platform/internal/audit"
)

func newTestService() (*Service, *MemoryRepo, *audit.MemoryRepo) {
	repo := NewMemoryRepo()
	auditRepo := audit.NewMemoryRepo()
	return NewService(repo, audit.NewService(auditRepo)), repo, auditRepo
}

func TestCreate_RequiresFullNameAndEmail(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Create(context.Background(), 1, Form{Email: "a@b.c"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, Form{FullName: "Ann"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreate_AssignsOwnerAndStatus(t *testing.T) {
	svc, repo, _ := newTestService()

	id, err := svc.Create(context.Background(), 7, Form{FullName: "Ann", Email: "ann@x.com", Skills: []string{"go", "sql"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f, err := repo.GetForUser(context.Background(), id, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f.UserID != 7 || f.Status != StatusSubmitted {
		t.Fatalf("unexpected form: %+v", f)
	}
	if len(f.Skills) != 2 || f.Skills[0] != "go" {
		t.Fatalf("skills lost: %+v", f.Skills)
	}
}

func TestGetMine_OtherUsersFormIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	id, err := svc.Create(context.Background(), 1, Form{FullName: "Ann", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Owner sees it.
	if _, err := svc.GetMine(context.Background(), id, 1); err != nil {
		t.Fatalf("owner get: %v", err)
	}
	// Another user gets the same answer as for a missing form.
	if _, err := svc.GetMine(context.Background(), id, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMine_OnlyOwnForms(t *testing.T) {
	svc, _, _ := newTestService()

	_, _ = svc.Create(context.Background(), 1, Form{FullName: "Ann", Email: "ann@x.com"})
	_, _ = svc.Create(context.Background(), 2, Form{FullName: "Bob", Email: "bob@x.com"})

	mine, err := svc.ListMine(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].FullName != "Ann" {
		t.Fatalf("unexpected forms: %+v", mine)
	}
}

func TestAdminList_SeesAllWithOwner(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.Owners[1] = [2]string{"Ann", "ann@x.com"}
	repo.Owners[2] = [2]string{"Bob", "bob@x.com"}

	_, _ = svc.Create(context.Background(), 1, Form{FullName: "Ann", Email: "ann@x.com"})
	_, _ = svc.Create(context.Background(), 2, Form{FullName: "Bob", Email: "bob@x.com"})

	all, err := svc.AdminList(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(all))
	}
	for _, f := range all {
		if f.UserName == "" || f.UserEmail == "" {
			t.Fatalf("owner fields missing: %+v", f)
		}
	}
}

func TestAdminUpdate_RoundTripAndAudit(t *testing.T) {
	svc, _, auditRepo := newTestService()

	id, err := svc.Create(context.Background(), 1, Form{FullName: "Ann", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	year := 2020
	if err := svc.AdminUpdate(context.Background(), 99, Form{
		ID: id, FullName: "Ann Smith", Email: "ann@x.com",
		GraduationYear: &year, Skills: []string{"go"},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	f, err := svc.AdminGet(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if f.FullName != "Ann Smith" || f.GraduationYear == nil || *f.GraduationYear != 2020 {
		t.Fatalf("update lost: %+v", f)
	}
	// Ownership survives an admin overwrite.
	if f.UserID != 1 {
		t.Fatalf("owner changed: %+v", f)
	}

	evs := auditRepo.Events()
	if len(evs) != 1 || evs[0].Kind != audit.EventKindAdminFormUpdate || evs[0].ActorID != 99 {
		t.Fatalf("expected admin update audit event, got %+v", evs)
	}
}

func TestAdminUpdateAndDelete_MissingFormIsNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	if err := svc.AdminUpdate(context.Background(), 1, Form{ID: 404, FullName: "x", Email: "y"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.AdminDelete(context.Background(), 1, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdminDelete_RemovesFormAndAudits(t *testing.T) {
	svc, _, auditRepo := newTestService()

	id, _ := svc.Create(context.Background(), 1, Form{FullName: "Ann", Email: "ann@x.com"})
	if err := svc.AdminDelete(context.Background(), 99, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.AdminGet(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if evs := auditRepo.Events(); len(evs) != 1 || evs[0].Kind != audit.EventKindAdminFormDelete {
		t.Fatalf("expected delete audit event, got %+v", evs)
	}
}
