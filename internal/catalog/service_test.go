package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
	"github.com/yaodigital/storefront-backend/pkg/images"
)

type fakeRepository struct {
	categories []CategoryRow
	products   []models.Product
	lastQuery  ProductQuery
	err        error
}

func (f *fakeRepository) ListActiveCategories(ctx context.Context) ([]CategoryRow, error) {
	return f.categories, f.err
}

func (f *fakeRepository) FindCategoryBySlug(ctx context.Context, slug string) (*CategoryRow, error) {
	for _, row := range f.categories {
		if row.Slug == slug {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, error) {
	f.lastQuery = query
	return f.products, f.err
}

func (f *fakeRepository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].Slug == slug {
			return &f.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo *fakeRepository) *Service {
	t.Helper()
	resolver := images.NewResolver("http://127.0.0.1:8000", "", "product-images")
	svc, err := NewService(repo, NewMapper(resolver, "+225 07 00 00 00 00"))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestDiscountPercentage(t *testing.T) {
	cases := []struct {
		name    string
		price   decimal.Decimal
		compare *decimal.Decimal
		want    int
	}{
		{"no compare price", decimal.NewFromInt(80), nil, 0},
		{"compare equals price", decimal.NewFromInt(80), decPtr(decimal.NewFromInt(80)), 0},
		{"compare below price", decimal.NewFromInt(80), decPtr(decimal.NewFromInt(60)), 0},
		{"twenty percent off", decimal.NewFromInt(80), decPtr(decimal.NewFromInt(100)), 20},
		{"third off rounds", decimal.NewFromInt(20), decPtr(decimal.NewFromInt(30)), 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := discountPercentage(tc.price, tc.compare); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestProductDerivedFields(t *testing.T) {
	repo := &fakeRepository{products: []models.Product{{
		ID:            uuid.New(),
		Name:          "Argan Oil",
		Slug:          "argan-oil",
		Price:         decimal.NewFromInt(80),
		ComparePrice:  decPtr(decimal.NewFromInt(100)),
		StockQuantity: 5,
		InStock:       true,
	}}}
	svc := newTestService(t, repo)

	product, err := svc.ProductBySlug(context.Background(), "argan-oil")
	if err != nil {
		t.Fatalf("product by slug: %v", err)
	}

	if product.DiscountPercentage != 20 {
		t.Fatalf("expected 20%% discount, got %d", product.DiscountPercentage)
	}
	if !product.IsLowStock {
		t.Fatalf("expected low stock flag for quantity 5")
	}
	if product.Price != "80.00" || product.ComparePrice != "100.00" {
		t.Fatalf("unexpected prices %q / %q", product.Price, product.ComparePrice)
	}
	if product.WhatsAppLink == "" {
		t.Fatalf("expected whatsapp link when a contact number is configured")
	}
}

func TestProductImagesNeverEmpty(t *testing.T) {
	repo := &fakeRepository{products: []models.Product{{
		ID:    uuid.New(),
		Name:  "No Images",
		Slug:  "no-images",
		Price: decimal.NewFromInt(10),
	}}}
	svc := newTestService(t, repo)

	product, err := svc.ProductBySlug(context.Background(), "no-images")
	if err != nil {
		t.Fatalf("product by slug: %v", err)
	}
	if len(product.Images) != 1 {
		t.Fatalf("expected exactly the placeholder image, got %v", product.Images)
	}
}

func TestProductImageOrdering(t *testing.T) {
	repo := &fakeRepository{products: []models.Product{{
		ID:     uuid.New(),
		Name:   "Gallery",
		Slug:   "gallery",
		Price:  decimal.NewFromInt(10),
		Image:  strPtr("/media/one.jpg"),
		Image2: strPtr("/media/two.jpg"),
		Images: []models.ProductImage{
			{Image: "/media/extra-1.jpg", OrderIndex: 0},
			{Image: "/media/extra-2.jpg", OrderIndex: 1},
		},
	}}}
	svc := newTestService(t, repo)

	product, err := svc.ProductBySlug(context.Background(), "gallery")
	if err != nil {
		t.Fatalf("product by slug: %v", err)
	}
	want := []string{
		"http://127.0.0.1:8000/media/one.jpg",
		"http://127.0.0.1:8000/media/two.jpg",
		"http://127.0.0.1:8000/media/extra-1.jpg",
		"http://127.0.0.1:8000/media/extra-2.jpg",
	}
	if len(product.Images) != len(want) {
		t.Fatalf("expected %d images, got %v", len(want), product.Images)
	}
	for i, url := range want {
		if product.Images[i] != url {
			t.Fatalf("image %d: expected %q, got %q", i, url, product.Images[i])
		}
	}
}

func TestCategoryNotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepository{})
	_, err := svc.CategoryBySlug(context.Background(), "missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFeaturedProductsSetsFilter(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo)

	if _, err := svc.FeaturedProducts(context.Background(), 8); err != nil {
		t.Fatalf("featured products: %v", err)
	}
	if repo.lastQuery.Featured == nil || !*repo.lastQuery.Featured {
		t.Fatalf("expected featured filter, got %+v", repo.lastQuery)
	}
	if repo.lastQuery.Limit != 8 {
		t.Fatalf("expected limit 8, got %d", repo.lastQuery.Limit)
	}
}

func TestProductsByCategorySkipsEmptyGroups(t *testing.T) {
	hairID := uuid.New()
	skinID := uuid.New()
	repo := &fakeRepository{
		categories: []CategoryRow{
			{Category: models.Category{ID: hairID, Name: "Hair", Slug: "hair"}},
			{Category: models.Category{ID: skinID, Name: "Skin", Slug: "skin"}},
		},
	}
	for i := 0; i < 6; i++ {
		repo.products = append(repo.products, models.Product{
			ID:         uuid.New(),
			CategoryID: &hairID,
			Name:       "Product",
			Price:      decimal.NewFromInt(10),
		})
	}
	svc := newTestService(t, repo)

	groups, err := svc.ProductsByCategory(context.Background())
	if err != nil {
		t.Fatalf("products by category: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected one non-empty group, got %d", len(groups))
	}
	if groups[0].Category.Slug != "hair" {
		t.Fatalf("unexpected group category %q", groups[0].Category.Slug)
	}
	if len(groups[0].Products) != maxProductsPerGroup {
		t.Fatalf("expected group capped at %d products, got %d", maxProductsPerGroup, len(groups[0].Products))
	}
}

func TestReviewerNameFallsBackToUsername(t *testing.T) {
	review := models.Review{
		User: &models.Profile{Username: "amina"},
	}
	if got := Review(review).UserName; got != "amina" {
		t.Fatalf("expected username fallback, got %q", got)
	}

	review.User.FirstName = strPtr("Amina")
	review.User.LastName = strPtr("K")
	if got := Review(review).UserName; got != "Amina K" {
		t.Fatalf("expected full name, got %q", got)
	}
}
