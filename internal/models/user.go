package models

import "fmt"

// Role is a user's access level, stored as its string value.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleClient   Role = "client"
	RolePending  Role = "pending"
	RoleBlocked  Role = "blocked"
)

// ParseRole maps a stored string back to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOperator, RoleClient, RolePending, RoleBlocked:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// ActiveRoles are the roles that can actually use the bot.
func ActiveRoles() []Role {
	return []Role{RoleAdmin, RoleOperator, RoleClient}
}

// User identifies a Telegram chat participant. Users are never deleted,
// only transitioned between roles.
type User struct {
	ID                   int64  `json:"user_id" validate:"required"`
	Name                 string `json:"user_name" validate:"required"`
	Phone                string `json:"phone_number"`
	Role                 Role   `json:"role" validate:"required"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// NewUser creates a self-registered user awaiting admin approval.
func NewUser(id int64, name, phone string) (*User, error) {
	u := &User{
		ID:                   id,
		Name:                 name,
		Phone:                phone,
		Role:                 RolePending,
		NotificationsEnabled: true,
	}
	if err := validate.Struct(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Row serializes the user in UserSchema field order.
func (u *User) Row() []interface{} {
	return []interface{}{
		u.ID, u.Name, u.Phone, string(u.Role), FormatBool(u.NotificationsEnabled),
	}
}

func (u *User) Label() string {
	return fmt.Sprintf("%s (%d)", u.Name, u.ID)
}

// UserFromRow parses one USERS sheet row.
func UserFromRow(row []interface{}) (*User, error) {
	id, err := cellInt64(row, 0)
	if err != nil {
		return nil, fmt.Errorf("user_id: %w", err)
	}
	role, err := ParseRole(cellString(row, 3))
	if err != nil {
		return nil, err
	}
	return &User{
		ID:                   id,
		Name:                 cellString(row, 1),
		Phone:                cellString(row, 2),
		Role:                 role,
		NotificationsEnabled: cellBool(row, 4),
	}, nil
}
