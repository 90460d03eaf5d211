package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
)

type fakeRepo struct {
	reviews   map[uuid.UUID]*models.Review
	products  map[uuid.UUID]bool
	refreshed []uuid.UUID
	calls     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reviews:  map[uuid.UUID]*models.Review{},
		products: map[uuid.UUID]bool{},
	}
}

func (f *fakeRepo) Create(_ context.Context, review *models.Review) error {
	f.calls++
	review.ID = uuid.New()
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	f.calls++
	review, ok := f.reviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return review, nil
}

func (f *fakeRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	f.calls++
	var out []models.Review
	for _, review := range f.reviews {
		if review.ProductID == productID {
			out = append(out, *review)
		}
	}
	return out, nil
}

func (f *fakeRepo) ProductExists(_ context.Context, productID uuid.UUID) (bool, error) {
	f.calls++
	return f.products[productID], nil
}

func (f *fakeRepo) RefreshProductRating(_ context.Context, productID uuid.UUID) error {
	f.refreshed = append(f.refreshed, productID)
	return nil
}

func TestProductReviewsArePublic(t *testing.T) {
	repo := newFakeRepo()
	productID := uuid.New()
	username := "ada"
	repo.reviews[uuid.New()] = &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		Rating:    4,
		User:      &models.Profile{Username: username},
	}
	svc := NewService(repo)

	got, err := svc.ProductReviews(context.Background(), productID)
	if err != nil {
		t.Fatalf("ProductReviews: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d reviews, want 1", len(got))
	}
	if got[0].UserName != "ada" {
		t.Fatalf("user name %q, want ada", got[0].UserName)
	}
}

func TestCreateReviewRequiresIdentity(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.CreateReview(context.Background(), storefront.CreateReviewInput{
		ProductID: uuid.New(),
		Rating:    5,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repo calls, got %d", repo.calls)
	}
}

func TestCreateReviewValidatesRating(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := storefront.WithIdentity(context.Background(), storefront.Identity{UserID: uuid.New()})

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.CreateReview(ctx, storefront.CreateReviewInput{ProductID: uuid.New(), Rating: rating})
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := storefront.WithIdentity(context.Background(), storefront.Identity{UserID: uuid.New()})

	_, err := svc.CreateReview(ctx, storefront.CreateReviewInput{ProductID: uuid.New(), Rating: 3})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateReviewRefreshesProductRating(t *testing.T) {
	repo := newFakeRepo()
	productID := uuid.New()
	repo.products[productID] = true
	svc := NewService(repo)

	userID := uuid.New()
	ctx := storefront.WithIdentity(context.Background(), storefront.Identity{UserID: userID})

	got, err := svc.CreateReview(ctx, storefront.CreateReviewInput{
		ProductID: productID,
		Rating:    5,
		Title:     "  Great  ",
		Comment:   "Would buy again.",
	})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if got.Rating != 5 || got.Title != "Great" {
		t.Fatalf("unexpected review: %+v", got)
	}
	if len(repo.refreshed) != 1 || repo.refreshed[0] != productID {
		t.Fatalf("expected rating refresh for %s, got %v", productID, repo.refreshed)
	}

	stored := repo.reviews[got.ID]
	if stored == nil || stored.UserID != userID {
		t.Fatal("review not attributed to the caller")
	}
}
