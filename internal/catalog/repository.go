package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/pkg/db/models"
	"github.com/yaodigital/storefront-backend/pkg/pagination"
)

// CategoryRow is a category with its computed product count.
type CategoryRow struct {
	models.Category
	ProductCount int
}

// ProductQuery narrows the product listing.
type ProductQuery struct {
	Category string // category id or slug
	Search   string
	Featured *bool
	Limit    int
	Offset   int
}

const activeProductCountExpr = "(SELECT count(*) FROM products p WHERE p.category_id = categories.id AND p.is_active) AS product_count"

// Repository loads catalog rows. All reads are scoped to active rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveCategories returns active categories ordered by name, each with
// its active product count.
func (r *Repository) ListActiveCategories(ctx context.Context) ([]CategoryRow, error) {
	var rows []CategoryRow
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, " + activeProductCountExpr).
		Where("categories.is_active = ?", true).
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategoryBySlug returns one active category with its product count.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*CategoryRow, error) {
	var row CategoryRow
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, "+activeProductCountExpr).
		Where("categories.slug = ? AND categories.is_active = ?", slug, true).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListProducts returns active products matching the query, newest first.
// Limit and offset request rows offset..offset+limit-1 inclusive.
func (r *Repository) ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, error) {
	start, end := pagination.Range(query.Limit, query.Offset)

	tx := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.order_index ASC")
		}).
		Where("products.is_active = ?", true)

	if query.Category != "" {
		if id, err := uuid.Parse(query.Category); err == nil {
			tx = tx.Where("products.category_id = ?", id)
		} else {
			tx = tx.Where("products.category_id IN (SELECT id FROM categories WHERE slug = ?)", query.Category)
		}
	}
	if query.Search != "" {
		tx = tx.Where("products.name ILIKE ?", "%"+query.Search+"%")
	}
	if query.Featured != nil {
		tx = tx.Where("products.is_featured = ?", *query.Featured)
	}

	var products []models.Product
	err := tx.Order("products.created_at DESC").
		Offset(start).
		Limit(end - start + 1).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindProductBySlug returns one active product with images, active
// variants, and reviews joined with the reviewing profile, newest first.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.order_index ASC")
		}).
		Preload("Variants", "is_active = ?", true).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.created_at DESC")
		}).
		Preload("Reviews.User").
		Where("products.slug = ? AND products.is_active = ?", slug, true).
		Take(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
