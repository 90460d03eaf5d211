package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/api/responses"
	"github.com/yaodigital/storefront-backend/api/validators"
	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/logger"
)

type createReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Title     string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Comment   string    `json:"comment,omitempty" validate:"omitempty,max=5000"`
}

func ListProductReviews(backend storefront.Backend, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseQueryUUID(r, "product")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reviews, err := backend.ProductReviews(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reviews)
	}
}

func CreateReview(backend storefront.Backend, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := backend.CreateReview(r.Context(), storefront.CreateReviewInput{
			ProductID: payload.ProductID,
			Rating:    payload.Rating,
			Title:     payload.Title,
			Comment:   payload.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}
