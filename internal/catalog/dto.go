package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/db/models"
	"github.com/yaodigital/storefront-backend/pkg/images"
	"github.com/yaodigital/storefront-backend/pkg/whatsapp"
)

const lowStockThreshold = 10

var oneHundred = decimal.NewFromInt(100)

// discountPercentage derives the read-time discount: zero unless a compare
// price exists and exceeds the price.
func discountPercentage(price decimal.Decimal, compare *decimal.Decimal) int {
	if compare == nil || !compare.IsPositive() || compare.LessThanOrEqual(price) {
		return 0
	}
	pct := compare.Sub(price).Div(*compare).Mul(oneHundred)
	return int(pct.Round(0).IntPart())
}

func isLowStock(quantity int) bool {
	return quantity > 0 && quantity <= lowStockThreshold
}

// Mapper turns database rows into the canonical storefront shapes, deriving
// the presentation-only fields (discount percentage, low-stock flag,
// resolved image URLs, contact link). Wishlist and cart reads share it.
type Mapper struct {
	resolver      images.Resolver
	contactNumber string
}

// NewMapper builds a row mapper.
func NewMapper(resolver images.Resolver, contactNumber string) Mapper {
	return Mapper{resolver: resolver, contactNumber: contactNumber}
}

// Category maps a category row with its computed product count.
func (m Mapper) Category(row CategoryRow) storefront.Category {
	return storefront.Category{
		ID:           row.ID,
		Name:         row.Name,
		Slug:         row.Slug,
		Description:  deref(row.Description),
		Image:        m.resolver.CategoryImage(deref(row.Image)),
		ProductCount: row.ProductCount,
		CreatedAt:    row.CreatedAt,
	}
}

// Product maps a product row. Detail additionally carries variants and
// reviews.
func (m Mapper) Product(p models.Product, detail bool) storefront.Product {
	refs := []string{deref(p.Image), deref(p.Image2), deref(p.Image3)}
	for _, img := range p.Images {
		refs = append(refs, img.Image)
	}

	product := storefront.Product{
		ID:                 p.ID,
		CategoryID:         p.CategoryID,
		Name:               p.Name,
		Slug:               p.Slug,
		Description:        deref(p.Description),
		Brand:              deref(p.Brand),
		SKU:                deref(p.SKU),
		Tags:               p.Tags,
		Price:              p.Price.StringFixed(2),
		DiscountPercentage: discountPercentage(p.Price, p.ComparePrice),
		Image:              m.resolver.ProductImage(deref(p.Image)),
		Image2:             m.resolver.Resolve(deref(p.Image2), ""),
		Image3:             m.resolver.Resolve(deref(p.Image3), ""),
		Images:             m.resolver.AllProductImages(refs...),
		StockQuantity:      p.StockQuantity,
		InStock:            p.InStock,
		IsLowStock:         isLowStock(p.StockQuantity),
		IsFeatured:         p.IsFeatured,
		AverageRating:      p.AverageRating,
		ReviewCount:        p.ReviewCount,
		CreatedAt:          p.CreatedAt,
	}
	if p.ComparePrice != nil {
		product.ComparePrice = p.ComparePrice.StringFixed(2)
	}
	if p.Category != nil {
		category := m.Category(CategoryRow{Category: *p.Category})
		product.Category = &category
	}
	if m.contactNumber != "" {
		product.WhatsAppLink = whatsapp.Link(m.contactNumber, "Hello! I'm interested in: "+p.Name)
	}

	if detail {
		product.Variants = make([]storefront.ProductVariant, 0, len(p.Variants))
		for _, v := range p.Variants {
			product.Variants = append(product.Variants, Variant(v))
		}
		product.Reviews = make([]storefront.Review, 0, len(p.Reviews))
		for _, review := range p.Reviews {
			product.Reviews = append(product.Reviews, Review(review))
		}
	}
	return product
}

// Variant maps a variant row.
func Variant(v models.ProductVariant) storefront.ProductVariant {
	variant := storefront.ProductVariant{
		ID:            v.ID,
		Name:          v.Name,
		Value:         v.Value,
		StockQuantity: v.StockQuantity,
		IsActive:      v.IsActive,
	}
	if v.PriceAdjustment != nil {
		variant.PriceAdjustment = v.PriceAdjustment.StringFixed(2)
	}
	return variant
}

// Review maps a review row, exposing only the reviewer's public display
// name.
func Review(r models.Review) storefront.Review {
	return storefront.Review{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		UserName:           reviewerName(r.User),
		Rating:             r.Rating,
		Title:              deref(r.Title),
		Comment:            deref(r.Comment),
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		HelpfulCount:       r.HelpfulCount,
		UnhelpfulCount:     r.UnhelpfulCount,
		CreatedAt:          r.CreatedAt,
	}
}

func reviewerName(profile *models.Profile) string {
	if profile == nil {
		return "Anonymous"
	}
	full := strings.TrimSpace(strings.TrimSpace(deref(profile.FirstName)) + " " + strings.TrimSpace(deref(profile.LastName)))
	if full != "" {
		return full
	}
	return profile.Username
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
