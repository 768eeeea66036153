package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdudgeon1993/chefs-kiss/internal/config"
	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

func main() {
	// Command line flags
	email := flag.String("email", "demo@chefskiss.local", "Email for the demo account")
	password := flag.String("password", "demo-password", "Password for the demo account")
	household := flag.String("household", "Demo Kitchen", "Household name")
	dryRun := flag.Bool("dry-run", false, "Preview without writing to database")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	if *dryRun {
		log.Printf("Dry run: would seed household %q with demo pantry, recipes and meal plan", *household)
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user, err := db.CreateUserWithHousehold(ctx, *email, string(hashed), *household)
	if err != nil {
		log.Fatalf("Failed to create demo account (already seeded?): %v", err)
	}
	log.Printf("Created account %s in household %s", user.Email, user.HouseholdID)

	seedPantry(ctx, db, user.HouseholdID)
	recipeIDs := seedRecipes(ctx, db, user.HouseholdID)
	seedMealPlan(ctx, db, user.HouseholdID, recipeIDs)
	seedShopping(ctx, db, user.HouseholdID)

	log.Println("Seeding complete")
}

func seedPantry(ctx context.Context, db *database.DB, householdID string) {
	soon := models.Today().AddDays(3)
	items := []models.CreatePantryItemRequest{
		{
			Name: "Flour", Category: "Baking", Unit: "cups", MinThreshold: 4,
			Locations: []models.Location{{Place: "Pantry", Quantity: 8}},
		},
		{
			Name: "Milk", Category: "Dairy", Unit: "cups", MinThreshold: 2,
			Locations: []models.Location{{Place: "Fridge", Quantity: 4, Expiry: &soon}},
		},
		{
			Name: "Eggs", Category: "Dairy", Unit: "count", MinThreshold: 6,
			Locations: []models.Location{{Place: "Fridge", Quantity: 12}},
		},
		{
			Name: "Rice", Category: "Grains", Unit: "cups", MinThreshold: 3,
			Locations: []models.Location{
				{Place: "Pantry", Quantity: 2},
				{Place: "Freezer", Quantity: 4},
			},
		},
		{
			Name: "Chicken Breast", Category: "Meat", Unit: "lbs",
			Locations: []models.Location{{Place: "Freezer", Quantity: 3}},
		},
		{
			Name: "Olive Oil", Category: "Condiments", Unit: "tbsp", MinThreshold: 10,
			Locations: []models.Location{{Place: "Pantry", Quantity: 40}},
		},
	}
	for i := range items {
		if _, err := db.CreatePantryItem(ctx, householdID, &items[i]); err != nil {
			log.Fatalf("Failed to seed pantry item %s: %v", items[i].Name, err)
		}
	}
	log.Printf("Seeded %d pantry items", len(items))
}

func seedRecipes(ctx context.Context, db *database.DB, householdID string) []string {
	recipes := []models.CreateRecipeRequest{
		{
			Name: "Pancakes", Category: "Breakfast", Tags: []string{"quick", "kid-friendly"}, Servings: 4,
			Ingredients: []models.IngredientLine{
				{Name: "Flour", Quantity: 2, Unit: "cups"},
				{Name: "Milk", Quantity: 1.5, Unit: "cups"},
				{Name: "Eggs", Quantity: 2, Unit: "count"},
			},
			Instructions: "Whisk dry ingredients, add milk and eggs, cook on a hot griddle.",
		},
		{
			Name: "Chicken Fried Rice", Category: "Dinner", Tags: []string{"one-pan"}, Servings: 4,
			Ingredients: []models.IngredientLine{
				{Name: "Rice", Quantity: 3, Unit: "cups"},
				{Name: "Chicken Breast", Quantity: 1, Unit: "lbs"},
				{Name: "Eggs", Quantity: 2, Unit: "count"},
				{Name: "Olive Oil", Quantity: 2, Unit: "tbsp"},
			},
			Instructions: "Dice and brown the chicken, scramble the eggs, fry everything with cold rice.",
		},
		{
			Name: "Crepes", Category: "Breakfast", Tags: []string{"weekend"}, Servings: 6,
			Ingredients: []models.IngredientLine{
				{Name: "Flour", Quantity: 1.5, Unit: "cups"},
				{Name: "Milk", Quantity: 2, Unit: "cups"},
				{Name: "Eggs", Quantity: 3, Unit: "count"},
			},
			Instructions: "Blend into a thin batter, rest 30 minutes, swirl in a buttered pan.",
		},
	}
	ids := make([]string, 0, len(recipes))
	for i := range recipes {
		r, err := db.CreateRecipe(ctx, householdID, &recipes[i])
		if err != nil {
			log.Fatalf("Failed to seed recipe %s: %v", recipes[i].Name, err)
		}
		ids = append(ids, r.ID)
	}
	log.Printf("Seeded %d recipes", len(recipes))
	return ids
}

func seedMealPlan(ctx context.Context, db *database.DB, householdID string, recipeIDs []string) {
	today := models.Today()
	plans := []models.CreateMealPlanRequest{
		{Date: today.AddDays(1), RecipeID: recipeIDs[0], MealType: "breakfast", ServingMultiplier: 1},
		{Date: today.AddDays(1), RecipeID: recipeIDs[1], MealType: "dinner", ServingMultiplier: 1},
		{Date: today.AddDays(3), RecipeID: recipeIDs[2], MealType: "breakfast", ServingMultiplier: 2},
	}
	for i := range plans {
		if _, err := db.CreateMealPlan(ctx, householdID, &plans[i]); err != nil {
			log.Fatalf("Failed to seed meal plan: %v", err)
		}
	}
	log.Printf("Seeded %d meal plan entries", len(plans))
}

func seedShopping(ctx context.Context, db *database.DB, householdID string) {
	entries := []models.CreateShoppingItemRequest{
		{Name: "Paper Towels", Quantity: 2, Unit: "rolls", Category: "Other"},
		{Name: "Coffee", Quantity: 1, Unit: "bags", Category: "Beverages"},
	}
	for i := range entries {
		if _, err := db.CreateManualShoppingItem(ctx, householdID, &entries[i]); err != nil {
			log.Fatalf("Failed to seed shopping item: %v", err)
		}
	}
	log.Printf("Seeded %d manual shopping items", len(entries))
}
