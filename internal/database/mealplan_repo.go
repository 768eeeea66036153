package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var (
	ErrMealPlanNotFound = errors.New("meal plan entry not found")
	ErrAlreadyCooked    = errors.New("meal plan entry already cooked")
)

// ListMealPlans returns a household's planned meals, optionally windowed
// by date.
func (db *DB) ListMealPlans(ctx context.Context, householdID string, from, to *models.Date) ([]*models.MealPlanEntry, error) {
	query := `
		SELECT id, household_id, plan_date, recipe_id, meal_type, serving_multiplier, cooked, created_at
		FROM meal_plans
		WHERE household_id = $1`
	args := []interface{}{householdID}
	if from != nil {
		args = append(args, *from)
		query += ` AND plan_date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND plan_date <= $3`
		} else {
			query += ` AND plan_date <= $2`
		}
	}
	query += ` ORDER BY plan_date, meal_type`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.MealPlanEntry
	for rows.Next() {
		p := &models.MealPlanEntry{}
		err := rows.Scan(
			&p.ID, &p.HouseholdID, &p.Date, &p.RecipeID, &p.MealType,
			&p.ServingMultiplier, &p.Cooked, &p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// GetMealPlan retrieves a single entry
func (db *DB) GetMealPlan(ctx context.Context, id, householdID string) (*models.MealPlanEntry, error) {
	p := &models.MealPlanEntry{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, household_id, plan_date, recipe_id, meal_type, serving_multiplier, cooked, created_at
		FROM meal_plans
		WHERE id = $1 AND household_id = $2
	`, id, householdID).Scan(
		&p.ID, &p.HouseholdID, &p.Date, &p.RecipeID, &p.MealType,
		&p.ServingMultiplier, &p.Cooked, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateMealPlan schedules a recipe for a date
func (db *DB) CreateMealPlan(ctx context.Context, householdID string, req *models.CreateMealPlanRequest) (*models.MealPlanEntry, error) {
	mult := req.ServingMultiplier
	if mult <= 0 {
		mult = 1
	}
	p := &models.MealPlanEntry{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO meal_plans (household_id, plan_date, recipe_id, meal_type, serving_multiplier)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, household_id, plan_date, recipe_id, meal_type, serving_multiplier, cooked, created_at
	`, householdID, req.Date, req.RecipeID, req.MealType, mult).Scan(
		&p.ID, &p.HouseholdID, &p.Date, &p.RecipeID, &p.MealType,
		&p.ServingMultiplier, &p.Cooked, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateMealPlan reschedules or edits an entry. The cooked flag is not
// writable here; it only flips through CookMealPlan.
func (db *DB) UpdateMealPlan(ctx context.Context, id, householdID string, req *models.UpdateMealPlanRequest) (*models.MealPlanEntry, error) {
	p := &models.MealPlanEntry{}
	err := db.Pool.QueryRow(ctx, `
		UPDATE meal_plans SET
			plan_date = COALESCE($3, plan_date),
			recipe_id = COALESCE($4, recipe_id),
			meal_type = COALESCE($5, meal_type),
			serving_multiplier = COALESCE($6, serving_multiplier)
		WHERE id = $1 AND household_id = $2
		RETURNING id, household_id, plan_date, recipe_id, meal_type, serving_multiplier, cooked, created_at
	`, id, householdID, req.Date, req.RecipeID, req.MealType, req.ServingMultiplier).Scan(
		&p.ID, &p.HouseholdID, &p.Date, &p.RecipeID, &p.MealType,
		&p.ServingMultiplier, &p.Cooked, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeleteMealPlan removes an entry
func (db *DB) DeleteMealPlan(ctx context.Context, id, householdID string) error {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM meal_plans WHERE id = $1 AND household_id = $2
	`, id, householdID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealPlanNotFound
	}
	return nil
}

// CookMealPlan flips the cooked flag and persists the depleted pantry in
// one transaction. The conditional UPDATE makes cooking one-shot even
// under concurrent submits: the second caller matches no row.
func (db *DB) CookMealPlan(ctx context.Context, id, householdID string, items []*models.PantryItem) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE meal_plans SET cooked = TRUE
		WHERE id = $1 AND household_id = $2 AND cooked = FALSE
	`, id, householdID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either missing or already cooked; disambiguate for the caller.
		var exists bool
		if err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM meal_plans WHERE id = $1 AND household_id = $2)",
			id, householdID,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrAlreadyCooked
		}
		return ErrMealPlanNotFound
	}

	if err := savePantryItemsTx(ctx, tx, householdID, items); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
