package constants

import "fmt"

const (
	RoleGuest     = "guest"
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
)

const ErrGuestCannotAccess = "guests may not use %s"

func RoleErrorGuest(feature string) string {
	return fmt.Sprintf(ErrGuestCannotAccess, feature)
}

var (
	AllRoles = []string{
		RoleGuest,
		RoleUser,
		RoleAdmin,
		RoleDeveloper,
	}

	// NonGuestRoles may call mutating admin routes.
	NonGuestRoles = []string{
		RoleUser,
		RoleAdmin,
		RoleDeveloper,
	}
)
