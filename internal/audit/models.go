package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Recording is best-effort; critical flows must not block on audit
//   failures.
type Event struct {
	ID string `json:"id" db:"id"`

	// Kind indicates the business category of the audit record.
	Kind EventKind `json:"kind" db:"kind"`

	// ActorID is the account causing the event. Zero for failed
	// logins where no identity was established.
	ActorID int64 `json:"actor_id,omitempty" db:"actor_id"`

	// Subject identifies the affected resource, e.g. "form:12" or an
	// email address for auth events.
	Subject string `json:"subject,omitempty" db:"subject"`

	// Detail is a short human-readable description for internal ops.
	Detail string `json:"detail,omitempty" db:"detail"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventKind string

const (
	EventKindRegistered      EventKind = "user_registered"
	EventKindLogin           EventKind = "user_login"
	EventKindLoginFailed     EventKind = "user_login_failed"
	EventKindAdminFormUpdate EventKind = "admin_form_update"
	EventKindAdminFormDelete EventKind = "admin_form_delete"
)
