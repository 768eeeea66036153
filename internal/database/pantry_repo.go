package database

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var (
	ErrPantryItemNotFound = errors.New("pantry item not found")
	ErrPantryItemExists   = errors.New("pantry item with this name and unit already exists")
)

// ListPantryItems returns every pantry item for a household with its
// locations in position order.
func (db *DB) ListPantryItems(ctx context.Context, householdID string) ([]*models.PantryItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, household_id, name, category, unit, min_threshold, created_at, updated_at
		FROM pantry_items
		WHERE household_id = $1
		ORDER BY category, LOWER(name)
	`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PantryItem
	byID := make(map[string]*models.PantryItem)
	for rows.Next() {
		item := &models.PantryItem{Locations: []models.Location{}}
		err := rows.Scan(
			&item.ID, &item.HouseholdID, &item.Name, &item.Category,
			&item.Unit, &item.MinThreshold, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	locRows, err := db.Pool.Query(ctx, `
		SELECT pl.id, pl.item_id, pl.location, pl.quantity, pl.expiration_date
		FROM pantry_locations pl
		JOIN pantry_items pi ON pl.item_id = pi.id
		WHERE pi.household_id = $1
		ORDER BY pl.item_id, pl.position
	`, householdID)
	if err != nil {
		return nil, err
	}
	defer locRows.Close()

	for locRows.Next() {
		var itemID string
		loc := models.Location{}
		if err := locRows.Scan(&loc.ID, &itemID, &loc.Place, &loc.Quantity, &loc.Expiry); err != nil {
			return nil, err
		}
		if item, ok := byID[itemID]; ok {
			item.Locations = append(item.Locations, loc)
		}
	}
	return items, locRows.Err()
}

// GetPantryItem retrieves a single item with locations
func (db *DB) GetPantryItem(ctx context.Context, id, householdID string) (*models.PantryItem, error) {
	item := &models.PantryItem{Locations: []models.Location{}}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, household_id, name, category, unit, min_threshold, created_at, updated_at
		FROM pantry_items
		WHERE id = $1 AND household_id = $2
	`, id, householdID).Scan(
		&item.ID, &item.HouseholdID, &item.Name, &item.Category,
		&item.Unit, &item.MinThreshold, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPantryItemNotFound
		}
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, location, quantity, expiration_date
		FROM pantry_locations
		WHERE item_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		loc := models.Location{}
		if err := rows.Scan(&loc.ID, &loc.Place, &loc.Quantity, &loc.Expiry); err != nil {
			return nil, err
		}
		item.Locations = append(item.Locations, loc)
	}
	return item, rows.Err()
}

// CreatePantryItem inserts an item and its locations
func (db *DB) CreatePantryItem(ctx context.Context, householdID string, req *models.CreatePantryItemRequest) (*models.PantryItem, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	item := &models.PantryItem{Locations: []models.Location{}}
	err = tx.QueryRow(ctx, `
		INSERT INTO pantry_items (household_id, name, category, unit, min_threshold)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, household_id, name, category, unit, min_threshold, created_at, updated_at
	`, householdID, req.Name, req.Category, req.Unit, req.MinThreshold).Scan(
		&item.ID, &item.HouseholdID, &item.Name, &item.Category,
		&item.Unit, &item.MinThreshold, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "unique_household_item") {
			return nil, ErrPantryItemExists
		}
		return nil, err
	}

	item.Locations, err = insertLocations(ctx, tx, item.ID, req.Locations)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdatePantryItem patches item fields. A non-nil Locations slice replaces
// the stored locations wholesale, preserving the given order.
func (db *DB) UpdatePantryItem(ctx context.Context, id, householdID string, req *models.UpdatePantryItemRequest) (*models.PantryItem, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE pantry_items SET
			name = COALESCE($3, name),
			category = COALESCE($4, category),
			unit = COALESCE($5, unit),
			min_threshold = COALESCE($6, min_threshold),
			updated_at = NOW()
		WHERE id = $1 AND household_id = $2
	`, id, householdID, req.Name, req.Category, req.Unit, req.MinThreshold)
	if err != nil {
		if strings.Contains(err.Error(), "unique_household_item") {
			return nil, ErrPantryItemExists
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPantryItemNotFound
	}

	if req.Locations != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM pantry_locations WHERE item_id = $1`, id); err != nil {
			return nil, err
		}
		if _, err := insertLocations(ctx, tx, id, req.Locations); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return db.GetPantryItem(ctx, id, householdID)
}

// DeletePantryItem removes an item and its locations
func (db *DB) DeletePantryItem(ctx context.Context, id, householdID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM pantry_items WHERE id = $1 AND household_id = $2
	`, id, householdID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPantryItemNotFound
	}
	return nil
}

// SavePantryItems persists a post-reconciliation item set in one
// transaction: existing items get their locations replaced, new items
// (empty ID) are inserted. Cook and checkout both funnel through here so
// stock changes land atomically.
func (db *DB) SavePantryItems(ctx context.Context, householdID string, items []*models.PantryItem) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := savePantryItemsTx(ctx, tx, householdID, items); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func savePantryItemsTx(ctx context.Context, tx pgx.Tx, householdID string, items []*models.PantryItem) error {
	for _, item := range items {
		if item.ID == "" {
			err := tx.QueryRow(ctx, `
				INSERT INTO pantry_items (household_id, name, category, unit, min_threshold)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, householdID, item.Name, item.Category, item.Unit, item.MinThreshold).Scan(&item.ID)
			if err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `
				UPDATE pantry_items SET updated_at = NOW()
				WHERE id = $1 AND household_id = $2
			`, item.ID, householdID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM pantry_locations WHERE item_id = $1`, item.ID); err != nil {
				return err
			}
		}
		if _, err := insertLocations(ctx, tx, item.ID, item.Locations); err != nil {
			return err
		}
	}
	return nil
}

func insertLocations(ctx context.Context, tx pgx.Tx, itemID string, locs []models.Location) ([]models.Location, error) {
	out := make([]models.Location, 0, len(locs))
	for pos, loc := range locs {
		err := tx.QueryRow(ctx, `
			INSERT INTO pantry_locations (item_id, location, quantity, expiration_date, position)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, itemID, loc.Place, loc.Quantity, loc.Expiry, pos).Scan(&loc.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}
