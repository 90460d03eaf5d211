package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
)

// maxProductsPerGroup caps each category block on the landing aggregate.
const maxProductsPerGroup = 4

// groupFetchLimit bounds the product scan backing the landing aggregate.
const groupFetchLimit = 100

type repository interface {
	ListActiveCategories(ctx context.Context) ([]CategoryRow, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*CategoryRow, error)
	ListProducts(ctx context.Context, query ProductQuery) ([]models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
}

// Service reads the catalog and derives the presentation-only fields
// (discount percentage, low-stock flag, resolved image URLs).
type Service struct {
	repo   repository
	mapper Mapper
}

var _ storefront.CatalogService = (*Service)(nil)

// NewService constructs the catalog service.
func NewService(repo repository, mapper Mapper) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Service{repo: repo, mapper: mapper}, nil
}

func (s *Service) Categories(ctx context.Context) ([]storefront.Category, error) {
	rows, err := s.repo.ListActiveCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	categories := make([]storefront.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, s.mapper.Category(row))
	}
	return categories, nil
}

func (s *Service) CategoryBySlug(ctx context.Context, slug string) (*storefront.Category, error) {
	row, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find category")
	}
	category := s.mapper.Category(*row)
	return &category, nil
}

func (s *Service) Products(ctx context.Context, filter storefront.ProductFilter) ([]storefront.Product, error) {
	rows, err := s.repo.ListProducts(ctx, ProductQuery{
		Category: filter.Category,
		Search:   filter.Search,
		Featured: filter.Featured,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	products := make([]storefront.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, s.mapper.Product(row, false))
	}
	return products, nil
}

func (s *Service) ProductBySlug(ctx context.Context, slug string) (*storefront.Product, error) {
	row, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find product")
	}
	product := s.mapper.Product(*row, true)
	return &product, nil
}

func (s *Service) FeaturedProducts(ctx context.Context, limit int) ([]storefront.Product, error) {
	featured := true
	return s.Products(ctx, storefront.ProductFilter{Featured: &featured, Limit: limit})
}

// ProductsByCategory fetches categories and products concurrently and joins
// them into per-category blocks, skipping categories with no products.
func (s *Service) ProductsByCategory(ctx context.Context) ([]storefront.CategoryProducts, error) {
	var (
		categories []storefront.Category
		products   []storefront.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.Products(gctx, storefront.ProductFilter{Limit: groupFetchLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byCategory := make(map[uuid.UUID][]storefront.Product, len(categories))
	for _, product := range products {
		if product.CategoryID == nil {
			continue
		}
		id := *product.CategoryID
		if len(byCategory[id]) >= maxProductsPerGroup {
			continue
		}
		byCategory[id] = append(byCategory[id], product)
	}

	groups := make([]storefront.CategoryProducts, 0, len(categories))
	for _, category := range categories {
		block := byCategory[category.ID]
		if len(block) == 0 {
			continue
		}
		groups = append(groups, storefront.CategoryProducts{
			Category: category,
			Products: block,
		})
	}
	return groups, nil
}
