package usecase

import (
	"context"
	"testing"

	"storefront-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(products ...domain.Product) (*CatalogUsecase, *fakeProductRepo) {
	repo := newFakeProductRepo(products...)
	return NewCatalogUsecase(repo, newTestCache(), newConverter(), &fakeTx{}, testConfig()), repo
}

func dynamicShirt() domain.Product {
	return domain.Product{ID: 1000, Name: "Printed Shirt", Category: "men", Price: 2000, Currency: "PKR", Sizes: []string{"M"}}
}

func TestCatalog_StaticProductsRejectEditDeleteAndRemoval(t *testing.T) {
	static := domain.Product{ID: 5, Name: "Classic Kurta", Category: "men", Price: 4500, Currency: "PKR", Sizes: []string{"M"}}
	uc, repo := newCatalog(static)
	ctx := context.Background()

	// Discount application goes through the discount mechanism and is allowed.
	_, err := uc.ApplyDiscount(ctx, 5, 10)
	require.NoError(t, err)

	_, errEdit := uc.UpdateProduct(ctx, &domain.Product{ID: 5, Name: "Renamed", Category: "men", Price: 1})
	errDelete := uc.DeleteProduct(ctx, 5)
	_, errRemove := uc.RemoveDiscount(ctx, 5)

	for _, err := range []error{errEdit, errDelete, errRemove} {
		require.Error(t, err)
		assert.Equal(t, domain.ErrInvalidTransition, domain.KindOf(err))
	}

	stored := repo.products[5]
	assert.Equal(t, "Classic Kurta", stored.Name)
	assert.True(t, stored.Discount.Active)
}

func TestCatalog_CreateNormalizesRecord(t *testing.T) {
	uc, _ := newCatalog()
	p := &domain.Product{ID: 7, Name: " Linen Scarf ", Category: "Accessories", Price: 1500, Currency: "XYZ"}

	require.NoError(t, uc.CreateProduct(context.Background(), p))

	assert.GreaterOrEqual(t, p.ID, domain.FirstDynamicProductID)
	assert.Equal(t, "Linen Scarf", p.Name)
	assert.Equal(t, "accessories", p.Category)
	assert.Equal(t, []string{domain.DefaultSize}, p.Sizes)
	assert.Equal(t, "PKR", p.Currency)
	assert.Nil(t, p.OriginalPrice)
}

func TestCatalog_CreateWithDiscount(t *testing.T) {
	uc, _ := newCatalog()
	p := &domain.Product{Name: "Shawl", Category: "accessories", Price: 1000, Discount: domain.Discount{Active: true, Percentage: 25}}

	require.NoError(t, uc.CreateProduct(context.Background(), p))
	assert.Equal(t, 750.0, p.Price)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 1000.0, *p.OriginalPrice)
}

func TestCatalog_CreateValidation(t *testing.T) {
	uc, _ := newCatalog()
	err := uc.CreateProduct(context.Background(), &domain.Product{Category: "men", Price: 10})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = uc.CreateProduct(context.Background(), &domain.Product{Name: "x", Category: "men", Price: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalog_DiscountRoundTrip(t *testing.T) {
	uc, repo := newCatalog(dynamicShirt())
	ctx := context.Background()

	p, err := uc.ApplyDiscount(ctx, 1000, 20)
	require.NoError(t, err)
	assert.Equal(t, 1600.0, p.Price)

	p, err = uc.ApplyDiscount(ctx, 1000, 50)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.Price, "second discount is computed from the original price")

	p, err = uc.RemoveDiscount(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, p.Price)
	assert.Nil(t, p.OriginalPrice)
	assert.Equal(t, domain.Discount{}, p.Discount)
	assert.Equal(t, 2000.0, repo.products[1000].Price)

	_, err = uc.RemoveDiscount(ctx, 1000)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCatalog_ApplyDiscountOutOfRange(t *testing.T) {
	uc, repo := newCatalog(dynamicShirt())
	_, err := uc.ApplyDiscount(context.Background(), 1000, 120)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, repo.products[1000].Discount.Active)
}

func TestCatalog_UpdateKeepsDiscount(t *testing.T) {
	uc, _ := newCatalog(dynamicShirt())
	ctx := context.Background()
	_, err := uc.ApplyDiscount(ctx, 1000, 10)
	require.NoError(t, err)

	list := 3000.0
	p, err := uc.UpdateProduct(ctx, &domain.Product{ID: 1000, Name: "Printed Shirt", Category: "men", Price: 1800, OriginalPrice: &list, Sizes: []string{"L", "L", " "}})
	require.NoError(t, err)
	assert.Equal(t, 2700.0, p.Price)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 3000.0, *p.OriginalPrice)
	assert.Equal(t, []string{"L"}, p.Sizes)
}

func TestCatalog_SavingFetchedDiscountedProductKeepsPrices(t *testing.T) {
	uc, repo := newCatalog(dynamicShirt())
	ctx := context.Background()
	_, err := uc.ApplyDiscount(ctx, 1000, 20)
	require.NoError(t, err)

	fetched, err := uc.GetProduct(ctx, 1000)
	require.NoError(t, err)
	require.Equal(t, 1600.0, fetched.Price)

	for i := 0; i < 2; i++ {
		edit := *fetched
		saved, err := uc.UpdateProduct(ctx, &edit)
		require.NoError(t, err)
		assert.Equal(t, 1600.0, saved.Price)
		require.NotNil(t, saved.OriginalPrice)
		assert.Equal(t, 2000.0, *saved.OriginalPrice)
	}

	stored := repo.products[1000]
	assert.Equal(t, 1600.0, stored.Price)
	assert.Equal(t, 2000.0, *stored.OriginalPrice)
	assert.Equal(t, 20.0, stored.Discount.Percentage)
}

func TestCatalog_UpdateWithoutListPriceKeepsStoredListPrice(t *testing.T) {
	uc, _ := newCatalog(dynamicShirt())
	ctx := context.Background()
	_, err := uc.ApplyDiscount(ctx, 1000, 25)
	require.NoError(t, err)

	p, err := uc.UpdateProduct(ctx, &domain.Product{ID: 1000, Name: "Printed Shirt", Category: "men", Price: 999})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, p.Price)
	assert.Equal(t, 2000.0, *p.OriginalPrice)

	bad := -1.0
	_, err = uc.UpdateProduct(ctx, &domain.Product{ID: 1000, Name: "Printed Shirt", Category: "men", Price: 1500, OriginalPrice: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalog_UpdateWithoutDiscountSetsPrice(t *testing.T) {
	uc, _ := newCatalog(dynamicShirt())
	p, err := uc.UpdateProduct(context.Background(), &domain.Product{ID: 1000, Name: "Printed Shirt", Category: "men", Price: 2400})
	require.NoError(t, err)
	assert.Equal(t, 2400.0, p.Price)
	assert.Nil(t, p.OriginalPrice)
}

func TestCatalog_ResetDiscounts(t *testing.T) {
	a := dynamicShirt()
	b := dynamicShirt()
	b.ID = 1001
	c := dynamicShirt()
	c.ID = 1002
	uc, repo := newCatalog(a, b, c)
	ctx := context.Background()

	for _, id := range []int64{1000, 1001, 1002} {
		_, err := uc.ApplyDiscount(ctx, id, 30)
		require.NoError(t, err)
	}
	repo.failOn[1001] = true

	_, err := uc.ResetDiscounts(ctx, "yes")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, repo.products[1000].Discount.Active, "unconfirmed reset changes nothing")

	report, err := uc.ResetDiscounts(ctx, domain.ResetDiscountsConfirmToken)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.ElementsMatch(t, []int64{1000, 1002}, report.Reset)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, int64(1001), report.Failed[0].ProductID)

	assert.False(t, repo.products[1000].Discount.Active)
	assert.Equal(t, 2000.0, repo.products[1000].Price)
	assert.True(t, repo.products[1001].Discount.Active, "failed product keeps its discount")
}

func TestCatalog_ResetReportsStaticProducts(t *testing.T) {
	static := domain.Product{ID: 100, Name: "Lawn Suit", Category: "women", Price: 8900, Currency: "PKR", Sizes: []string{"M"}}
	uc, _ := newCatalog(static)
	ctx := context.Background()
	_, err := uc.ApplyDiscount(ctx, 100, 10)
	require.NoError(t, err)

	report, err := uc.ResetDiscounts(ctx, domain.ResetDiscountsConfirmToken)
	require.NoError(t, err)
	assert.Empty(t, report.Reset)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Error, "static catalog")
}

func TestCatalog_ListIsCachedAndInvalidated(t *testing.T) {
	uc, repo := newCatalog(dynamicShirt())
	ctx := context.Background()

	_, total, err := uc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	reads := repo.reads

	_, _, err = uc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, reads, repo.reads, "second listing is served from cache")

	require.NoError(t, uc.CreateProduct(ctx, &domain.Product{Name: "Cap", Category: "accessories", Price: 500}))
	_, total, err = uc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestCatalog_GetProductNotFound(t *testing.T) {
	uc, _ := newCatalog()
	_, err := uc.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeatured_AddRemove(t *testing.T) {
	products := newFakeProductRepo(dynamicShirt())
	uc := NewFeaturedUsecase(&fakeFeaturedRepo{products: products}, products, newTestCache(), testConfig())
	ctx := context.Background()

	list, err := uc.Add(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1000), list[0].ProductID)

	list, err = uc.Add(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, list, 1, "adding twice keeps one entry")

	_, err = uc.Add(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err = uc.Remove(ctx, 1000)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.Remove(ctx, 1000)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
