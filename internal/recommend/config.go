package recommend

import "fmt"

// Config tunes the engine.
type Config struct {
	// TopK is how many recipes goal ranking keeps before diversity
	// selection.
	TopK int `koanf:"top_k"`

	// Seed seeds the k-means initialisation.
	Seed int64 `koanf:"seed"`

	// DefaultNumRecipes is used when an inventory request does not say how
	// many recipes it wants.
	DefaultNumRecipes int `koanf:"default_num_recipes"`

	// MaxNumRecipes bounds NumRecipes on inventory requests.
	MaxNumRecipes int `koanf:"max_num_recipes"`

	// ShoppingSuggestions caps the shopping list length.
	ShoppingSuggestions int `koanf:"shopping_suggestions"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TopK:                DefaultTopK,
		Seed:                kmeansSeed,
		DefaultNumRecipes:   5,
		MaxNumRecipes:       10,
		ShoppingSuggestions: 5,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.TopK < 1:
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	case c.DefaultNumRecipes < 1:
		return fmt.Errorf("default_num_recipes must be positive, got %d", c.DefaultNumRecipes)
	case c.MaxNumRecipes < c.DefaultNumRecipes:
		return fmt.Errorf("max_num_recipes (%d) must be >= default_num_recipes (%d)", c.MaxNumRecipes, c.DefaultNumRecipes)
	case c.ShoppingSuggestions < 0:
		return fmt.Errorf("shopping_suggestions must not be negative, got %d", c.ShoppingSuggestions)
	}
	return nil
}
