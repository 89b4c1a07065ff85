package constants

// RoleAdmin is the only staff role; every authenticated route requires it.
const RoleAdmin = "admin"

func IsValidRole(role string) bool {
	return role == RoleAdmin
}
