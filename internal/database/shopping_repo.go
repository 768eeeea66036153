package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var ErrShoppingItemNotFound = errors.New("shopping item not found")

// ListManualShoppingItems returns a household's user-added entries. Derived
// entries never touch this table; they are recomputed on every read.
func (db *DB) ListManualShoppingItems(ctx context.Context, householdID string) ([]*models.ShoppingEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, quantity, unit, category, checked, created_at
		FROM shopping_manual_items
		WHERE household_id = $1
		ORDER BY created_at
	`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ShoppingEntry
	for rows.Next() {
		e := &models.ShoppingEntry{Source: models.SourceManual}
		err := rows.Scan(&e.ID, &e.Name, &e.Quantity, &e.Unit, &e.Category, &e.Checked, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateManualShoppingItem adds a user entry
func (db *DB) CreateManualShoppingItem(ctx context.Context, householdID string, req *models.CreateShoppingItemRequest) (*models.ShoppingEntry, error) {
	e := &models.ShoppingEntry{Source: models.SourceManual}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO shopping_manual_items (household_id, name, quantity, unit, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, quantity, unit, category, checked, created_at
	`, householdID, req.Name, req.Quantity, req.Unit, req.Category).Scan(
		&e.ID, &e.Name, &e.Quantity, &e.Unit, &e.Category, &e.Checked, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateManualShoppingItem patches a user entry
func (db *DB) UpdateManualShoppingItem(ctx context.Context, id, householdID string, req *models.UpdateShoppingItemRequest) (*models.ShoppingEntry, error) {
	e := &models.ShoppingEntry{Source: models.SourceManual}
	err := db.Pool.QueryRow(ctx, `
		UPDATE shopping_manual_items SET
			name = COALESCE($3, name),
			quantity = COALESCE($4, quantity),
			unit = COALESCE($5, unit),
			category = COALESCE($6, category),
			checked = COALESCE($7, checked)
		WHERE id = $1 AND household_id = $2
		RETURNING id, name, quantity, unit, category, checked, created_at
	`, id, householdID, req.Name, req.Quantity, req.Unit, req.Category, req.Checked).Scan(
		&e.ID, &e.Name, &e.Quantity, &e.Unit, &e.Category, &e.Checked, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShoppingItemNotFound
		}
		return nil, err
	}
	return e, nil
}

// DeleteManualShoppingItem removes a user entry
func (db *DB) DeleteManualShoppingItem(ctx context.Context, id, householdID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM shopping_manual_items WHERE id = $1 AND household_id = $2
	`, id, householdID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShoppingItemNotFound
	}
	return nil
}

// ClearCheckedManualItems deletes every checked user entry, returning how
// many were removed.
func (db *DB) ClearCheckedManualItems(ctx context.Context, householdID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM shopping_manual_items WHERE household_id = $1 AND checked = TRUE
	`, householdID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ApplyCheckout persists a checkout in one transaction: the restocked
// pantry items land and the consumed manual entries disappear together.
func (db *DB) ApplyCheckout(ctx context.Context, householdID string, items []*models.PantryItem, clearedManualIDs []string) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := savePantryItemsTx(ctx, tx, householdID, items); err != nil {
		return err
	}
	for _, id := range clearedManualIDs {
		if _, err := tx.Exec(ctx, `
			DELETE FROM shopping_manual_items WHERE id = $1 AND household_id = $2
		`, id, householdID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
