// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billsplit/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrBillExists is returned when saving a bill for a group that
	// already has items. The bill must be cleared first.
	ErrBillExists = errors.New("group already has an active bill")
)

// UserStore persists registered users.
type UserStore interface {
	// CreateUser returns ErrAlreadyExists if the phone is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdatePayoutAddress(ctx context.Context, userID, address string) error
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists the group and adds its owner as the first member.
	// The group.ID and CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with Members populated, owner first.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups the user belongs to, without members.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMember returns ErrAlreadyExists if the user is already a member.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// ListMembers returns every member of the group exactly once, owner first.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)
}

// BillStore persists each group's single active bill.
type BillStore interface {
	// SaveBill stores a freshly extracted bill with empty selections.
	// Returns ErrBillExists if the group already has one.
	SaveBill(ctx context.Context, groupID, uploaderID string, items []models.Item, taxes []models.Tax) (*models.Bill, error)

	// LoadBill returns ErrNotFound when the group has no bill.
	LoadBill(ctx context.Context, groupID string) (*models.Bill, error)

	// SaveSelections overwrites the whole selections map. Last write wins.
	SaveSelections(ctx context.Context, groupID string, selections models.Selections) error

	// UpdateSelections loads the bill, applies fn and writes the selections
	// back in one transaction. Nothing is written if fn returns an error.
	UpdateSelections(ctx context.Context, groupID string, fn func(*models.Bill) error) (*models.Bill, error)

	// ClearBill removes the group's bill so a new one can be uploaded.
	ClearBill(ctx context.Context, groupID string) error
}

// Store aggregates every persistence concern.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	UserStore
	GroupStore
	BillStore

	// Close releases any resources held by the store.
	Close() error
}
