package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/epicourier/backend/internal/recommend"
)

// MockCatalog is a mock implementation of recommend.CatalogProvider
type MockCatalog struct {
	mock.Mock
}

// Recipes mocks the Recipes method
func (m *MockCatalog) Recipes(ctx context.Context) ([]recommend.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recommend.Recipe), args.Error(1)
}

// MockEmbedder is a mock implementation of recommend.Embedder
type MockEmbedder struct {
	mock.Mock
}

// Embed mocks the Embed method
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// EmbedBatch mocks the EmbedBatch method
func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockCompleter is a mock implementation of recommend.Completer
type MockCompleter struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// Configured mocks the Configured method
func (m *MockCompleter) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockRecommender is a mock implementation of api.Recommender
type MockRecommender struct {
	mock.Mock
}

// CreateMealPlan mocks the CreateMealPlan method
func (m *MockRecommender) CreateMealPlan(ctx context.Context, goal string, numMeals int) (*recommend.MealPlan, error) {
	args := m.Called(ctx, goal, numMeals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommend.MealPlan), args.Error(1)
}

// RecommendFromInventory mocks the RecommendFromInventory method
func (m *MockRecommender) RecommendFromInventory(ctx context.Context, req recommend.InventoryRequest) (*recommend.RecommendationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommend.RecommendationResult), args.Error(1)
}
