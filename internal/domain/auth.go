package domain

import "github.com/google/uuid"

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGithub Provider = "github"
	ProviderLocal  Provider = "local"
)

// Role is the privilege tier of a user.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

type AuthPayload struct {
	UserID     string   `json:"user_id"`
	Username   string   `json:"username"`
	Role       Role     `json:"role"`
	Permission []string `json:"permission"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

// IsPrivileged reports admin or higher.
func (a Actor) IsPrivileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// IsSuperAdmin reports the highest tier, which may bypass lifecycle locks.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

func (p AuthPayload) Actor() (Actor, error) {
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return Actor{}, err
	}
	role := p.Role
	if role == "" {
		role = RoleUser
	}
	return Actor{UserID: id, Username: p.Username, Role: role}, nil
}
