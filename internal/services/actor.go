package services

import (
	"strconv"

	"github.com/anonto42/gammy/backend/internal/models"
)

// GuestName labels content created without an account.
const GuestName = "Guest"

// Actor is the resolved caller of an operation. UserID is nil for
// anonymous callers, who may still carry an AnonKey.
type Actor struct {
	UserID  *uint
	Name    string
	Email   string
	Role    string
	AnonKey string
}

// UserActor builds an Actor for an authenticated member.
func UserActor(id uint, name, email, role string) Actor {
	return Actor{UserID: &id, Name: name, Email: email, Role: role}
}

func (a Actor) Authenticated() bool {
	return a.UserID != nil
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == models.RoleAdmin
}

// Key identifies the actor in the like ledger: "user:<id>" for members,
// the anonymous key otherwise. Empty means the actor cannot be identified.
func (a Actor) Key() string {
	if a.UserID != nil {
		return "user:" + strconv.FormatUint(uint64(*a.UserID), 10)
	}
	return a.AnonKey
}

// DisplayName is the name shown on content and notifications.
func (a Actor) DisplayName() string {
	if a.Authenticated() && a.Name != "" {
		return a.Name
	}
	return GuestName
}

// Owns reports whether the actor is the member identified by ownerID.
func (a Actor) Owns(ownerID *uint) bool {
	return a.UserID != nil && ownerID != nil && *a.UserID == *ownerID
}
