package models

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

func ToRole(s string) (Role, error) {
	switch s {
	case string(RoleWorker):
		return RoleWorker, nil
	case string(RoleEmployer):
		return RoleEmployer, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	default:
		return "", errors.New("invalid role")
	}
}

type Identity struct {
	ID     string `gorm:"primaryKey" json:"id"`
	Name   string `json:"name"`
	Email  string `gorm:"uniqueIndex" json:"email"`
	Role   Role   `json:"role"`
	Phone  string `json:"phone,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (Identity) TableName() string {
	return "identities"
}

// IdentityPatch holds the fields a user may change on their own profile.
// Role and email are deliberately absent.
type IdentityPatch struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=120"`
	Phone  *string `json:"phone" validate:"omitempty,max=32"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

func (p IdentityPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Avatar == nil
}

// Merge returns a copy of the identity with the non-nil patch fields applied.
func (i Identity) Merge(patch IdentityPatch) Identity {
	merged := i
	if patch.Name != nil {
		merged.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Phone != nil {
		merged.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Avatar != nil {
		merged.Avatar = strings.TrimSpace(*patch.Avatar)
	}
	return merged
}

type Registration struct {
	Name            string `json:"name" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	Role            Role   `json:"role" validate:"required,oneof=worker employer"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (r Registration) Identity(id string) Identity {
	return Identity{
		ID:    id,
		Name:  strings.TrimSpace(r.Name),
		Email: NormalizeEmail(r.Email),
		Role:  r.Role,
		Phone: strings.TrimSpace(r.Phone),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthSession is what the auth provider hands back after a successful sign-in.
type AuthSession struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
}
