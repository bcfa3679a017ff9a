// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"yummigo/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Categories used by the factory. Listing recipes groups and filters on
// these, so seeding from a fixed set keeps the category dropdown sane.
var categories = []string{
	"Breakfast", "Lunch", "Dinner", "Dessert",
	"Snack", "Soup", "Salad", "Vegan",
}

// Options control how the seeder generates data.
type Options struct {
	// SkipBcrypt stores the demo password as plain text. Fast, dev only.
	SkipBcrypt bool
	// MaxDays spreads recipe creation dates over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildRecipe constructs a recipe struct without persisting it. Useful
// for batching.
func (f *Factory) BuildRecipe(user *models.User, overrides ...func(*models.Recipe)) *models.Recipe {
	ingredients := make([]string, 0, 8)
	for i := 0; i < 3+f.rng.Intn(6); i++ {
		ingredients = append(ingredients, strings.ToLower(gofakeit.Lunch()))
	}
	steps := make([]string, 0, 6)
	for i := 0; i < 2+f.rng.Intn(5); i++ {
		steps = append(steps, gofakeit.Sentence(8))
	}

	calories := gofakeit.Number(120, 950)
	protein := gofakeit.Number(5, 60)
	carbs := gofakeit.Number(10, 120)
	fat := gofakeit.Number(2, 50)
	cookingTime := gofakeit.Number(10, 180)

	recipe := &models.Recipe{
		Title:                gofakeit.Dinner(),
		Description:          gofakeit.Paragraph(1, 2, 8, " "),
		Ingredients:          strings.Join(ingredients, "\n"),
		Steps:                strings.Join(steps, "\n"),
		Category:             categories[f.rng.Intn(len(categories))],
		ImageURL:             fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		Calories:             &calories,
		Protein:              &protein,
		Carbs:                &carbs,
		Fat:                  &fat,
		CookingTimeInMinutes: &cookingTime,
		UserID:               user.ID,
	}

	// realistic created_at spread
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	recipe.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(recipe)
	}
	return recipe
}

// CreateRecipesBatch persists multiple recipes in a single DB call.
func (f *Factory) CreateRecipesBatch(recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	return f.db.Create(&recipes).Error
}

// LikeRecipe records a like, ignoring duplicates.
func (f *Factory) LikeRecipe(userID, recipeID uint) error {
	like := models.RecipeLike{UserID: userID, RecipeID: recipeID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

// Seeder orchestrates full database population runs.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with default factory options.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, Options{})}
}

// ClearAll removes all seeded data. Deletes run child-first to respect
// foreign key constraints.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, table := range []string{"recipe_likes", "recipes", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Seed populates the database with numUsers accounts and numRecipes
// recipes, then scatters likes across them.
func (s *Seeder) Seed(numUsers, numRecipes int) error {
	log.Println("Starting database seeding...")

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	recipes := make([]*models.Recipe, 0, numRecipes)
	for i := 0; i < numRecipes; i++ {
		owner := users[s.factory.rng.Intn(len(users))]
		recipes = append(recipes, s.factory.BuildRecipe(owner))
	}
	if err := s.factory.CreateRecipesBatch(recipes); err != nil {
		return fmt.Errorf("failed to create recipes: %w", err)
	}
	log.Printf("Created %d recipes", len(recipes))

	likes := 0
	for _, recipe := range recipes {
		for _, user := range users {
			if s.factory.rng.Intn(100) < 15 {
				if err := s.factory.LikeRecipe(user.ID, recipe.ID); err != nil {
					return fmt.Errorf("failed to add like: %w", err)
				}
				likes++
			}
		}
	}
	log.Printf("Added %d likes", likes)

	log.Println("Database seeding completed successfully")
	return nil
}
