package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveBill stores a new bill for the group with empty selections.
func (s *SQLiteStore) SaveBill(ctx context.Context, groupID, uploaderID string, items []models.Item, taxes []models.Tax) (*models.Bill, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("bill for group %s has no items", groupID)
	}
	if taxes == nil {
		taxes = []models.Tax{}
	}

	now := time.Now().Unix()
	bill := &models.Bill{
		GroupID:    groupID,
		UploaderID: uploaderID,
		Items:      items,
		Taxes:      taxes,
		Selections: models.Selections{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	itemsJSON, err := json.Marshal(bill.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}
	taxesJSON, err := json.Marshal(bill.Taxes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode taxes: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bills (group_id, uploader_id, items, taxes, selections, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, '{}', 0, ?, ?)`,
		groupID, uploaderID, string(itemsJSON), string(taxesJSON), now, now,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrBillExists)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert bill: %w", err)
	}

	return bill, nil
}

// LoadBill retrieves the group's active bill.
func (s *SQLiteStore) LoadBill(ctx context.Context, groupID string) (*models.Bill, error) {
	return loadBill(ctx, s.db, groupID)
}

func loadBill(ctx context.Context, q queryer, groupID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var itemsJSON, taxesJSON, selectionsJSON string
	err := q.QueryRowContext(ctx,
		`SELECT group_id, uploader_id, items, taxes, selections, version, created_at, updated_at
		 FROM bills WHERE group_id = ?`,
		groupID,
	).Scan(&bill.GroupID, &bill.UploaderID, &itemsJSON, &taxesJSON, &selectionsJSON,
		&bill.Version, &bill.CreatedAt, &bill.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill for group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &bill.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	if err := json.Unmarshal([]byte(taxesJSON), &bill.Taxes); err != nil {
		return nil, fmt.Errorf("failed to decode taxes: %w", err)
	}
	if err := json.Unmarshal([]byte(selectionsJSON), &bill.Selections); err != nil {
		return nil, fmt.Errorf("failed to decode selections: %w", err)
	}
	if bill.Selections == nil {
		bill.Selections = models.Selections{}
	}

	return bill, nil
}

// SaveSelections overwrites the group's selections.
func (s *SQLiteStore) SaveSelections(ctx context.Context, groupID string, selections models.Selections) error {
	return writeSelections(ctx, s.db, groupID, selections)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func writeSelections(ctx context.Context, e execer, groupID string, selections models.Selections) error {
	if selections == nil {
		selections = models.Selections{}
	}
	data, err := json.Marshal(selections)
	if err != nil {
		return fmt.Errorf("failed to encode selections: %w", err)
	}

	res, err := e.ExecContext(ctx,
		"UPDATE bills SET selections = ?, version = version + 1, updated_at = ? WHERE group_id = ?",
		string(data), time.Now().Unix(), groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update selections: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill for group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// UpdateSelections applies fn to the bill inside a transaction.
func (s *SQLiteStore) UpdateSelections(ctx context.Context, groupID string, fn func(*models.Bill) error) (*models.Bill, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bill, err := loadBill(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}

	if err := fn(bill); err != nil {
		return nil, err
	}

	if err := writeSelections(ctx, tx, groupID, bill.Selections); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	bill.Version++
	return bill, nil
}

// ClearBill deletes the group's bill.
func (s *SQLiteStore) ClearBill(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE group_id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill for group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}
