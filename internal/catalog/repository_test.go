package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	repo, err := NewRepository(filepath.Join(t.TempDir(), "menu.db"))
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations("./migrations"))
	t.Cleanup(func() { repo.Close() })

	return repo
}

func TestListProducts_SeededMenu(t *testing.T) {
	repo := setupTestDB(t)

	products, err := repo.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, products, 6)
	assert.Equal(t, "Burgers", products[0].Category)
	assert.False(t, products[0].CreatedAt.IsZero())
}

func TestListProducts_ByCategory(t *testing.T) {
	repo := setupTestDB(t)

	sides, err := repo.ListProducts(context.Background(), "sides")
	require.NoError(t, err)
	require.Len(t, sides, 2)
	for _, p := range sides {
		assert.Equal(t, "Sides", p.Category)
	}

	none, err := repo.ListProducts(context.Background(), "Pizza")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	p, err := repo.GetProduct(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Chips", p.Name)
	assert.Equal(t, "5.50", p.Price.StringFixed(2))

	_, err = repo.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateUpdateDeleteProduct(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	p := &domain.Product{
		Name:     "  Veggie Wrap ",
		Price:    decimal.RequireFromString("8.95"),
		Category: "Wraps",
	}
	require.NoError(t, repo.CreateProduct(ctx, p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Veggie Wrap", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	p.Price = decimal.RequireFromString("9.25")
	p.Description = "Hummus and roast vegetables"
	require.NoError(t, repo.UpdateProduct(ctx, p))

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "9.25", got.Price.StringFixed(2))
	assert.Equal(t, "Hummus and roast vegetables", got.Description)

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	_, err = repo.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, repo.DeleteProduct(ctx, p.ID), ErrProductNotFound)
	assert.ErrorIs(t, repo.UpdateProduct(ctx, p), ErrProductNotFound)
}

func TestCreateProduct_Invalid(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.CreateProduct(context.Background(), &domain.Product{Name: "Free lunch", Price: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidProduct)

	products, err := repo.ListProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, products, 6)
}

func TestValidate(t *testing.T) {
	valid := func() *domain.Product {
		return &domain.Product{Name: "Soup", Price: decimal.RequireFromString("4.50"), Category: "Starters"}
	}

	tests := []struct {
		name   string
		mutate func(p *domain.Product)
		field  string
	}{
		{"missing name", func(p *domain.Product) { p.Name = "   " }, "name"},
		{"long name", func(p *domain.Product) { p.Name = strings.Repeat("a", 101) }, "name"},
		{"price too low", func(p *domain.Product) { p.Price = decimal.Zero }, "price"},
		{"price too high", func(p *domain.Product) { p.Price = decimal.RequireFromString("10000") }, "price"},
		{"long description", func(p *domain.Product) { p.Description = strings.Repeat("d", 501) }, "description"},
		{"long image url", func(p *domain.Product) { p.ImageURL = strings.Repeat("u", 201) }, "imageUrl"},
		{"missing category", func(p *domain.Product) { p.Category = "" }, "category"},
	}

	require.NoError(t, Validate(valid()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)

			err := Validate(p)
			require.ErrorIs(t, err, ErrInvalidProduct)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Len(t, verr.Fields, 1)
		})
	}
}
