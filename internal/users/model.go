package users

import "time"

// User is an account row in the users table.
// PasswordHash must never leave this package through an API response;
// handlers only ever see PublicUser.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// PublicUser is the client-visible view of an account.
// CreatedAt is only populated on the current-identity lookup.
type PublicUser struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func (u User) PublicWithCreatedAt() PublicUser {
	p := u.Public()
	created := u.CreatedAt
	p.CreatedAt = &created
	return p
}
