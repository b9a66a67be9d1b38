package events

import "github.com/maxaizer/jobmarket/internal/domain/models"

var (
	LoggedInTopic       = "LoggedInEvent"
	LoggedOutTopic      = "LoggedOutEvent"
	RegisteredTopic     = "RegisteredEvent"
	ProfileUpdatedTopic = "ProfileUpdatedEvent"
	AuthFailedTopic     = "AuthFailedEvent"
)

type LoggedIn struct {
	SessionID string
	Identity  models.Identity
}

type LoggedOut struct {
	SessionID  string
	IdentityID string
}

type Registered struct {
	SessionID string
	Identity  models.Identity
}

type ProfileUpdated struct {
	SessionID string
	Identity  models.Identity
}

// AuthFailed carries failures the user should be told about, the operation
// name and the error kind.
type AuthFailed struct {
	SessionID string
	Op        string
	Err       error
}
