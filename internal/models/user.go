package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Phone is the 10-digit phone number used to sign in. Unique.
	Phone string

	// DisplayName is the name shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// PayoutAddress is the UPI ID other members pay to. Empty until set.
	PayoutAddress string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(phone, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Phone:        phone,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Member returns the user as seen from inside a group.
func (u *User) Member() Member {
	return Member{
		ID:            u.ID,
		DisplayName:   u.DisplayName,
		PayoutAddress: u.PayoutAddress,
	}
}

// Member is a group member as consumed by bill splitting.
type Member struct {
	ID          string
	DisplayName string

	// PayoutAddress is optional; settlement shows a warning when it is empty.
	PayoutAddress string
}

// MemberIDs extracts the IDs preserving order.
func MemberIDs(members []Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

// FindMember returns the member with the given ID.
func FindMember(members []Member, id string) (Member, bool) {
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}
