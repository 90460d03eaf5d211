package wishlist

import (
	"context"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/internal/catalog"
	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
)

type repository interface {
	EnsureDefault(ctx context.Context, userID uuid.UUID) (*models.Wishlist, error)
	AddItem(ctx context.Context, wishlistID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, wishlistID, productID uuid.UUID) error
	ListProductIDs(ctx context.Context, wishlistID uuid.UUID) ([]uuid.UUID, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
}

// Service exposes the user-scoped wishlist operations. Every operation
// requires an authenticated identity before touching the database.
type Service struct {
	repo   repository
	mapper catalog.Mapper
}

var _ storefront.WishlistService = (*Service)(nil)

// NewService builds the wishlist service.
func NewService(repo repository, mapper catalog.Mapper) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	return &Service{repo: repo, mapper: mapper}, nil
}

func (s *Service) DefaultWishlist(ctx context.Context) (*storefront.Wishlist, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default wishlist")
	}
	return s.toWishlist(row), nil
}

func (s *Service) AddWishlistItem(ctx context.Context, productID uuid.UUID) (*storefront.Wishlist, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	row, err := s.repo.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default wishlist")
	}
	if err := s.repo.AddItem(ctx, row.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add wishlist item")
	}

	row, err = s.repo.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload wishlist")
	}
	return s.toWishlist(row), nil
}

func (s *Service) RemoveWishlistItem(ctx context.Context, productID uuid.UUID) error {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return err
	}
	row, err := s.repo.EnsureDefault(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default wishlist")
	}
	if err := s.repo.RemoveItem(ctx, row.ID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove wishlist item")
	}
	return nil
}

func (s *Service) WishlistProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default wishlist")
	}
	ids, err := s.repo.ListProductIDs(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wishlist product ids")
	}
	return ids, nil
}

func (s *Service) toWishlist(row *models.Wishlist) *storefront.Wishlist {
	wishlist := &storefront.Wishlist{
		ID:        row.ID,
		Name:      row.Name,
		IsDefault: row.IsDefault,
		Items:     make([]storefront.WishlistItem, 0, len(row.Items)),
	}
	for _, item := range row.Items {
		mapped := storefront.WishlistItem{
			ID:      item.ID,
			AddedAt: item.CreatedAt,
		}
		if item.Product != nil {
			mapped.Product = s.mapper.Product(*item.Product, false)
		}
		wishlist.Items = append(wishlist.Items, mapped)
	}
	return wishlist
}
