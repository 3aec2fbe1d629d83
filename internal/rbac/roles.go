package rbac

// Role names. Keep these stable; they are stored in the users table
// and embedded in issued tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
