package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var ErrSettingsNotFound = errors.New("household settings not found")

// GetSettings retrieves a household's option sets, falling back to the
// defaults when the row is missing (pre-settings households).
func (db *DB) GetSettings(ctx context.Context, householdID string) (*models.HouseholdSettings, error) {
	s := &models.HouseholdSettings{}
	err := db.Pool.QueryRow(ctx, `
		SELECT household_id, locations, categories, category_emojis
		FROM household_settings
		WHERE household_id = $1
	`, householdID).Scan(&s.HouseholdID, &s.Locations, &s.Categories, &s.CategoryEmojis)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			defaults := models.DefaultSettings()
			defaults.HouseholdID = householdID
			return defaults, nil
		}
		return nil, err
	}
	if s.CategoryEmojis == nil {
		s.CategoryEmojis = map[string]string{}
	}
	return s, nil
}

// SaveSettings upserts a household's option sets
func (db *DB) SaveSettings(ctx context.Context, householdID string, s *models.HouseholdSettings) (*models.HouseholdSettings, error) {
	out := &models.HouseholdSettings{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO household_settings (household_id, locations, categories, category_emojis, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (household_id) DO UPDATE SET
			locations = EXCLUDED.locations,
			categories = EXCLUDED.categories,
			category_emojis = EXCLUDED.category_emojis,
			updated_at = NOW()
		RETURNING household_id, locations, categories, category_emojis
	`, householdID, s.Locations, s.Categories, s.CategoryEmojis).Scan(
		&out.HouseholdID, &out.Locations, &out.Categories, &out.CategoryEmojis,
	)
	if err != nil {
		return nil, err
	}
	if out.CategoryEmojis == nil {
		out.CategoryEmojis = map[string]string{}
	}
	return out, nil
}
