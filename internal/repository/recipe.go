package repository

import (
	"context"
	"errors"
	"strings"

	"yummigo/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortKey is the closed set of listing sort orders.
type SortKey string

const (
	SortTitleAsc  SortKey = "title_asc"
	SortTitleDesc SortKey = "title_desc"
	SortDateAsc   SortKey = "date_asc"
	SortDateDesc  SortKey = "date_desc"
)

// SearchField is the closed set of fields a text search can target.
type SearchField string

const (
	SearchTitle       SearchField = "title"
	SearchIngredients SearchField = "ingredients"
	SearchDescription SearchField = "description"
	SearchCategory    SearchField = "category"
	SearchAll         SearchField = "all"
)

// sortClauses maps each sort key to its ORDER BY clause. Recipe IDs are
// sequence-assigned, so ordering by ID orders by creation time.
var sortClauses = map[SortKey]string{
	SortTitleAsc:  "title ASC",
	SortTitleDesc: "title DESC",
	SortDateAsc:   "id ASC",
	SortDateDesc:  "id DESC",
}

// searchColumns maps each single-field search target to its column.
var searchColumns = map[SearchField]string{
	SearchTitle:       "title",
	SearchIngredients: "ingredients",
	SearchDescription: "description",
	SearchCategory:    "category",
}

// ResolveSortKey maps raw client input onto the closed sort-key set.
// Anything unrecognized falls back to date_desc.
func ResolveSortKey(raw string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := sortClauses[key]; ok {
		return key
	}
	return SortDateDesc
}

// ResolveSearchField maps raw client input onto the closed search-field set.
// Anything unrecognized (including empty) falls back to all.
func ResolveSearchField(raw string) SearchField {
	field := SearchField(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := searchColumns[field]; ok {
		return field
	}
	return SearchAll
}

// ListQuery carries the resolved recipe listing parameters. Zero values mean
// "no constraint": empty Category/Search skip their filter stages, Limit <= 0
// returns everything.
type ListQuery struct {
	Category    string
	Search      string
	SearchField SearchField
	Ingredients []string
	Sort        SortKey
	Limit       int
}

// RecipeRepository defines persistence operations for recipes and likes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Recipe, error)
	List(ctx context.Context, q ListQuery, viewerID uint) ([]*models.Recipe, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.RecipeSummary, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	Categories(ctx context.Context) ([]string, error)
	Like(ctx context.Context, userID, recipeID uint) (bool, error)
	Unlike(ctx context.Context, userID, recipeID uint) (bool, error)
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.applyLikeDetails(r.db.WithContext(ctx), viewerID).
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &recipe, nil
}

// List runs the full query pipeline: category filter, text search, conjunctive
// ingredient filter, sort, limit, and like enrichment — in that fixed order.
func (r *recipeRepository) List(ctx context.Context, q ListQuery, viewerID uint) ([]*models.Recipe, error) {
	db := r.applyLikeDetails(r.db.WithContext(ctx), viewerID)
	db = applyCategoryFilter(db, q.Category)
	db = applySearchFilter(db, q.Search, q.SearchField)
	db = applyIngredientFilter(db, q.Ingredients)
	db = applySort(db, q.Sort)
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var recipes []*models.Recipe
	if err := db.Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

// applyLikeDetails adds subqueries to fetch the like count and viewer-liked
// flag in a single query.
func (r *recipeRepository) applyLikeDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "recipes.*, " +
		"(SELECT COUNT(*) FROM recipe_likes WHERE recipe_likes.recipe_id = recipes.id) AS like_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM recipe_likes WHERE recipe_likes.recipe_id = recipes.id AND recipe_likes.user_id = ?) AS liked",
			viewerID)
	}

	return db.Select(selectQuery + ", 0 AS liked")
}

func applyCategoryFilter(db *gorm.DB, category string) *gorm.DB {
	if strings.TrimSpace(category) == "" {
		return db
	}
	return db.Where("LOWER(category) = ?", strings.ToLower(category))
}

func applySearchFilter(db *gorm.DB, search string, field SearchField) *gorm.DB {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return db
	}
	pattern := "%" + term + "%"

	if column, ok := searchColumns[field]; ok {
		return db.Where("LOWER("+column+") LIKE ?", pattern)
	}

	// SearchAll: OR across the four text fields.
	return db.Where(
		"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ? OR LOWER(category) LIKE ?",
		pattern, pattern, pattern, pattern,
	)
}

// applyIngredientFilter requires every non-empty entry to appear as a
// substring of the ingredients text. Filters stack, so the match is
// conjunctive.
func applyIngredientFilter(db *gorm.DB, ingredients []string) *gorm.DB {
	for _, ing := range ingredients {
		ing = strings.ToLower(strings.TrimSpace(ing))
		if ing == "" {
			continue
		}
		db = db.Where("LOWER(ingredients) LIKE ?", "%"+ing+"%")
	}
	return db
}

func applySort(db *gorm.DB, sort SortKey) *gorm.DB {
	if order, ok := sortClauses[sort]; ok {
		return db.Order(order)
	}
	return db.Order(sortClauses[SortDateDesc])
}

func (r *recipeRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.RecipeSummary, error) {
	var summaries []models.RecipeSummary
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("id", "title", "description", "image_url", "category").
		Where("user_id = ?", ownerID).
		Order("id DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summaries, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	// Likes cascade at the database level.
	if err := r.db.WithContext(ctx).Delete(&models.Recipe{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *recipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *recipeRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// Like records a like, reporting whether a row was created. The composite
// primary key arbitrates concurrent likes: the losing insert affects zero
// rows and is reported as "already liked".
func (r *recipeRepository) Like(ctx context.Context, userID, recipeID uint) (bool, error) {
	like := models.RecipeLike{UserID: userID, RecipeID: recipeID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Unlike removes a like, reporting whether a row existed.
func (r *recipeRepository) Unlike(ctx context.Context, userID, recipeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.RecipeLike{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}
