package models

import (
	"encoding/json"
	"time"
)

// PendingRegistration is a credential whose profile could not be created.
type PendingRegistration struct {
	UserID    string `gorm:"primaryKey"`
	Email     string
	Profile   []byte
	LastError string
	Attempts  int `gorm:"default:1"`
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func NewPendingRegistration(identity Identity, cause error) (PendingRegistration, error) {
	profile, err := json.Marshal(identity)
	if err != nil {
		return PendingRegistration{}, err
	}

	pending := PendingRegistration{UserID: identity.ID, Email: identity.Email, Profile: profile, Attempts: 1}
	if cause != nil {
		pending.LastError = cause.Error()
	}
	return pending, nil
}

func (p PendingRegistration) Identity() (Identity, error) {
	var identity Identity
	err := json.Unmarshal(p.Profile, &identity)
	return identity, err
}
