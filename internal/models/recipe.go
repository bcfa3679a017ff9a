package models

import (
	"strings"
	"time"
)

// Recipe represents one recipe submission. Ingredients and Steps are stored
// as newline-delimited text and split into slices only at projection time.
type Recipe struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"size:150;not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Ingredients string  `gorm:"type:text;not null" json:"ingredients"`
	Steps       string  `gorm:"type:text;not null" json:"steps"`
	Category    string  `gorm:"size:50;not null;index" json:"category"`
	ImageURL    string  `gorm:"not null" json:"image_url"`
	VideoURL    *string `json:"video_url,omitempty"`

	// Optional nutrition facts; nil means not provided.
	Calories             *int `json:"calories,omitempty"`
	Protein              *int `json:"protein,omitempty"`
	Carbs                *int `json:"carbs,omitempty"`
	Fat                  *int `json:"fat,omitempty"`
	CookingTimeInMinutes *int `json:"cooking_time_in_minutes,omitempty"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// LikeCount is not persisted; computed at query time
	LikeCount int `gorm:"->;-:migration" json:"-"`
	// Liked indicates whether the current requesting user liked this recipe (computed)
	Liked bool `gorm:"->;-:migration" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecipeView is the enriched recipe projection returned to clients. Field
// names follow the public API contract (camelCase).
type RecipeView struct {
	ID                   uint     `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Ingredients          []string `json:"ingredients"`
	Steps                []string `json:"steps"`
	Category             string   `json:"category"`
	ImageURL             string   `json:"imageUrl"`
	VideoURL             *string  `json:"videoUrl,omitempty"`
	Calories             *int     `json:"calories,omitempty"`
	Protein              *int     `json:"protein,omitempty"`
	Carbs                *int     `json:"carbs,omitempty"`
	Fat                  *int     `json:"fat,omitempty"`
	CookingTimeInMinutes *int     `json:"cookingTimeInMinutes,omitempty"`
	LikeCount            int      `json:"likeCount"`
	IsLikedByCurrentUser bool     `json:"isLikedByCurrentUser"`
}

// RecipeSummary is the reduced listing shape used for an owner's own recipes.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
}

// View projects the recipe into its enriched client-facing shape, splitting
// the newline-delimited ingredients and steps into ordered slices.
func (r *Recipe) View() RecipeView {
	return RecipeView{
		ID:                   r.ID,
		Title:                r.Title,
		Description:          r.Description,
		Ingredients:          SplitLines(r.Ingredients),
		Steps:                SplitLines(r.Steps),
		Category:             r.Category,
		ImageURL:             r.ImageURL,
		VideoURL:             r.VideoURL,
		Calories:             r.Calories,
		Protein:              r.Protein,
		Carbs:                r.Carbs,
		Fat:                  r.Fat,
		CookingTimeInMinutes: r.CookingTimeInMinutes,
		LikeCount:            r.LikeCount,
		IsLikedByCurrentUser: r.Liked,
	}
}

// SplitLines splits newline-delimited text into its non-empty lines,
// preserving order. CR from CRLF input is stripped; blank lines are dropped.
func SplitLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
