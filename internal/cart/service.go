package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/internal/catalog"
	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
)

type repository interface {
	EnsureOpen(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, productID uuid.UUID, variantID *uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (int64, error)
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	ProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	VariantByID(ctx context.Context, variantID, productID uuid.UUID) (*models.ProductVariant, error)
}

// Service exposes the user-scoped cart operations. The unit price is
// captured when an item is added; totals are decimal arithmetic over the
// captured prices.
type Service struct {
	repo   repository
	mapper catalog.Mapper
}

var _ storefront.CartService = (*Service)(nil)

// NewService builds the cart service.
func NewService(repo repository, mapper catalog.Mapper) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	return &Service{repo: repo, mapper: mapper}, nil
}

func (s *Service) CurrentCart(ctx context.Context) (*storefront.Cart, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadCart(ctx, userID)
}

func (s *Service) AddCartItem(ctx context.Context, input storefront.AddCartItemInput) (*storefront.Cart, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.repo.ProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	unitPrice := product.Price
	if input.VariantID != nil {
		variant, err := s.repo.VariantByID(ctx, *input.VariantID, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variant")
		}
		if variant.PriceAdjustment != nil {
			unitPrice = unitPrice.Add(*variant.PriceAdjustment)
		}
	}

	cart, err := s.repo.EnsureOpen(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	existing, err := s.repo.FindItem(ctx, cart.ID, input.ProductID, input.VariantID)
	switch {
	case err == nil:
		// same product and variant merge into one line
		if _, err := s.repo.SetItemQuantity(ctx, cart.ID, existing.ID, existing.Quantity+input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merge cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  input.Quantity,
			UnitPrice: unitPrice,
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find cart item")
	}

	return s.loadCart(ctx, userID)
}

func (s *Service) UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*storefront.Cart, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.repo.EnsureOpen(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	rows, err := s.repo.SetItemQuantity(ctx, cart.ID, itemID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.loadCart(ctx, userID)
}

func (s *Service) RemoveCartItem(ctx context.Context, itemID uuid.UUID) (*storefront.Cart, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.EnsureOpen(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return s.loadCart(ctx, userID)
}

func (s *Service) ClearCart(ctx context.Context) (*storefront.Cart, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	cart, err := s.repo.EnsureOpen(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return s.loadCart(ctx, userID)
}

func (s *Service) loadCart(ctx context.Context, userID uuid.UUID) (*storefront.Cart, error) {
	row, err := s.repo.EnsureOpen(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return s.toCart(row), nil
}

func (s *Service) toCart(row *models.Cart) *storefront.Cart {
	cart := &storefront.Cart{
		ID:    row.ID,
		Items: make([]storefront.CartItem, 0, len(row.Items)),
	}
	subtotal := decimal.Zero
	for _, item := range row.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		mapped := storefront.CartItem{
			ID:        item.ID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			LineTotal: lineTotal.StringFixed(2),
		}
		if item.Product != nil {
			mapped.Product = s.mapper.Product(*item.Product, false)
		}
		if item.Variant != nil {
			variant := catalog.Variant(*item.Variant)
			mapped.Variant = &variant
		}
		cart.Items = append(cart.Items, mapped)
		cart.ItemCount += item.Quantity
	}
	cart.Subtotal = subtotal.StringFixed(2)
	return cart
}
