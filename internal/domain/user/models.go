package user

import (
	"errors"
	"strings"
	"time"
)

// Roles an account can hold. Managers own item pools; mobile users borrow
// on behalf of registered borrowers and always belong to one manager.
const (
	RoleManager = "manager"
	RoleMobile  = "mobile"
)

// Domain errors
var (
	ErrNotFound         = errors.New("user not found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrManagerRequired  = errors.New("mobile users must have a manager assigned")
	ErrManagerForbidden = errors.New("managers cannot have a manager assigned")
)

// User represents an authenticated account (manager or mobile app user).
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	ManagerID    *int64    `json:"managerId,omitempty"`
	FCMToken     *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new user
type CreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	ManagerID    *int64
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("email is required")
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	switch p.Role {
	case RoleManager:
		if p.ManagerID != nil {
			return ErrManagerForbidden
		}
	case RoleMobile:
		if p.ManagerID == nil {
			return ErrManagerRequired
		}
	default:
		return ErrInvalidRole
	}
	return nil
}

// Scope is the tenant filter applied to every entity query. A manager sees
// its own pool; a mobile user sees the pool of its assigned manager.
type Scope struct {
	UserID    int64
	Role      string
	ManagerID int64
}

// IsManager reports whether the caller acts as the pool owner.
func (s Scope) IsManager() bool { return s.Role == RoleManager }

// ScopeFor resolves the tenant scope for an authenticated user.
func ScopeFor(u *User) (Scope, error) {
	switch u.Role {
	case RoleManager:
		return Scope{UserID: u.ID, Role: RoleManager, ManagerID: u.ID}, nil
	case RoleMobile:
		if u.ManagerID == nil {
			return Scope{}, ErrManagerRequired
		}
		return Scope{UserID: u.ID, Role: RoleMobile, ManagerID: *u.ManagerID}, nil
	default:
		return Scope{}, ErrInvalidRole
	}
}
