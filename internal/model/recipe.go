package model

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Recipe is a catalog entry. Ingredients and tags are linked through
// RecipeIngredientMap and RecipeTagMap.
type Recipe struct {
	ID          int64            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	ImageURL    string           `gorm:"size:255" json:"image_url"`
	MinPrepTime int              `json:"min_prep_time"`
	GreenScore  float64          `json:"green_score"`
	Embedding   *pgvector.Vector `gorm:"type:vector(384)" json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Ingredient is a named ingredient referenced by recipes and inventories.
type Ingredient struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// RecipeTag is a free-form label such as "vegetarian" or "high-protein".
type RecipeTag struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredientMap links a recipe to one required ingredient.
type RecipeIngredientMap struct {
	RecipeID     int64 `gorm:"primaryKey" json:"recipe_id"`
	IngredientID int64 `gorm:"primaryKey" json:"ingredient_id"`
}

func (RecipeIngredientMap) TableName() string {
	return "recipe_ingredient_map"
}

// RecipeTagMap links a recipe to a tag.
type RecipeTagMap struct {
	RecipeID int64 `gorm:"primaryKey" json:"recipe_id"`
	TagID    int64 `gorm:"primaryKey" json:"tag_id"`
}

func (RecipeTagMap) TableName() string {
	return "recipe_tag_map"
}

// All lists the catalog models in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Ingredient{},
		&RecipeTag{},
		&Recipe{},
		&RecipeIngredientMap{},
		&RecipeTagMap{},
	}
}
