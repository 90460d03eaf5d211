package reviews

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/internal/catalog"
	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
	RefreshProductRating(ctx context.Context, productID uuid.UUID) error
}

// Service serves product review reads and writes for database mode. Reads
// are public, writes require an authenticated caller.
type Service struct {
	repo repository
}

var _ storefront.ReviewService = (*Service)(nil)

// NewService builds the review service.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ProductReviews(ctx context.Context, productID uuid.UUID) ([]storefront.Review, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	out := make([]storefront.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalog.Review(row))
	}
	return out, nil
}

func (s *Service) CreateReview(ctx context.Context, input storefront.CreateReviewInput) (*storefront.Review, error) {
	userID, err := storefront.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	exists, err := s.repo.ProductExists(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	review := &models.Review{
		ProductID: input.ProductID,
		UserID:    userID,
		Rating:    input.Rating,
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		review.Title = &title
	}
	if comment := strings.TrimSpace(input.Comment); comment != "" {
		review.Comment = &comment
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	if err := s.repo.RefreshProductRating(ctx, input.ProductID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refresh product rating")
	}

	saved, err := s.repo.FindByID(ctx, review.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload review")
	}
	out := catalog.Review(*saved)
	return &out, nil
}
