package database

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// ListRecipes returns every recipe for a household
func (db *DB) ListRecipes(ctx context.Context, householdID string) ([]*models.Recipe, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, household_id, name, category, tags, servings, ingredients,
			instructions, photo_url, created_at, updated_at
		FROM recipes
		WHERE household_id = $1
		ORDER BY LOWER(name)
	`, householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// GetRecipe retrieves a single recipe
func (db *DB) GetRecipe(ctx context.Context, id, householdID string) (*models.Recipe, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, household_id, name, category, tags, servings, ingredients,
			instructions, photo_url, created_at, updated_at
		FROM recipes
		WHERE id = $1 AND household_id = $2
	`, id, householdID)

	r, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// CreateRecipe inserts a new recipe
func (db *DB) CreateRecipe(ctx context.Context, householdID string, req *models.CreateRecipeRequest) (*models.Recipe, error) {
	ingredients, err := json.Marshal(req.Ingredients)
	if err != nil {
		return nil, err
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO recipes (household_id, name, category, tags, servings, ingredients, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, household_id, name, category, tags, servings, ingredients,
			instructions, photo_url, created_at, updated_at
	`, householdID, req.Name, req.Category, tags, req.Servings, ingredients, req.Instructions)

	return scanRecipe(row)
}

// UpdateRecipe replaces a recipe's definition
func (db *DB) UpdateRecipe(ctx context.Context, id, householdID string, req *models.CreateRecipeRequest) (*models.Recipe, error) {
	ingredients, err := json.Marshal(req.Ingredients)
	if err != nil {
		return nil, err
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE recipes SET
			name = $3, category = $4, tags = $5, servings = $6,
			ingredients = $7, instructions = $8, updated_at = NOW()
		WHERE id = $1 AND household_id = $2
		RETURNING id, household_id, name, category, tags, servings, ingredients,
			instructions, photo_url, created_at, updated_at
	`, id, householdID, req.Name, req.Category, tags, req.Servings, ingredients, req.Instructions)

	r, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return r, nil
}

// SetRecipePhotoURL stores the uploaded photo location
func (db *DB) SetRecipePhotoURL(ctx context.Context, id, householdID, url string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE recipes SET photo_url = $3, updated_at = NOW()
		WHERE id = $1 AND household_id = $2
	`, id, householdID, url)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// DeleteRecipe removes a recipe. Meal plan entries referencing it cascade.
func (db *DB) DeleteRecipe(ctx context.Context, id, householdID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM recipes WHERE id = $1 AND household_id = $2
	`, id, householdID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	r := &models.Recipe{}
	var ingredients []byte
	var photoURL *string
	err := row.Scan(
		&r.ID, &r.HouseholdID, &r.Name, &r.Category, &r.Tags, &r.Servings,
		&ingredients, &r.Instructions, &photoURL, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ingredients, &r.Ingredients); err != nil {
		return nil, err
	}
	if photoURL != nil {
		r.PhotoURL = *photoURL
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return r, nil
}
