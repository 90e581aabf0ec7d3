package domain

import "time"

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// Role enumerates what an account may do on the platform.
type Role string

const (
	RoleCompanyAdmin  Role = "company_admin"
	RoleCoach         Role = "coach"
	RolePlatformAdmin Role = "platform_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCompanyAdmin, RoleCoach, RolePlatformAdmin:
		return true
	}
	return false
}

// User is an account: a company administrator, a coach, or platform staff.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CompanyID    *string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
