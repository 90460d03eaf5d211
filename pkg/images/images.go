package images

import "strings"

// Fallback assets served by the storefront when a record has no image.
const (
	DefaultProductImage  = "/placeholder-product.jpg"
	DefaultCategoryImage = "/placeholder-category.jpg"
	DefaultAvatar        = "/placeholder-avatar.jpg"
)

// Resolver turns stored image references into renderable URLs. It is pure:
// no lookups, no side effects, deterministic for a given configuration.
type Resolver struct {
	origin      string
	storageBase string
	bucket      string
}

// NewResolver builds a resolver for the given API origin and public storage
// location. Trailing slashes are normalized away.
func NewResolver(origin, storageBase, bucket string) Resolver {
	return Resolver{
		origin:      strings.TrimRight(strings.TrimSpace(origin), "/"),
		storageBase: strings.TrimRight(strings.TrimSpace(storageBase), "/"),
		bucket:      strings.Trim(strings.TrimSpace(bucket), "/"),
	}
}

// Resolve normalizes a stored image reference into a URL. Empty references
// yield the fallback, absolute URLs pass through unchanged, root-relative
// paths are prefixed with the API origin, and bare paths get an added slash.
func (r Resolver) Resolve(ref, fallback string) string {
	if ref == "" {
		return fallback
	}
	if isAbsolute(ref) {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return r.origin + ref
	}
	return r.origin + "/" + ref
}

// ProductImage resolves a product image reference with the product fallback.
func (r Resolver) ProductImage(ref string) string {
	return r.Resolve(ref, DefaultProductImage)
}

// CategoryImage resolves a category image reference with the category fallback.
func (r Resolver) CategoryImage(ref string) string {
	return r.Resolve(ref, DefaultCategoryImage)
}

// Avatar resolves a profile avatar reference with the avatar fallback.
func (r Resolver) Avatar(ref string) string {
	return r.Resolve(ref, DefaultAvatar)
}

// AllProductImages resolves the ordered image references of a product,
// dropping empty slots. The result is never empty: a product without images
// gets the placeholder as its single entry.
func (r Resolver) AllProductImages(refs ...string) []string {
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		urls = append(urls, r.ProductImage(ref))
	}
	if len(urls) == 0 {
		urls = append(urls, DefaultProductImage)
	}
	return urls
}

// ObjectURL resolves a storage object path in the configured bucket to its
// public URL. Absolute URLs pass through; an empty path yields the product
// placeholder.
func (r Resolver) ObjectURL(path string) string {
	if path == "" {
		return DefaultProductImage
	}
	if isAbsolute(path) {
		return path
	}
	trimmed := strings.TrimLeft(path, "/")
	if r.storageBase == "" {
		return r.Resolve(trimmed, DefaultProductImage)
	}
	if r.bucket == "" {
		return r.storageBase + "/" + trimmed
	}
	return r.storageBase + "/" + r.bucket + "/" + trimmed
}

func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
