package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/config"
	pkgerrors "github.com/yaodigital/storefront-backend/pkg/errors"
	"github.com/yaodigital/storefront-backend/pkg/logger"
)

const responseBodyReadLimit int64 = 2048

// Client proxies every facade operation to an upstream storefront API over
// JSON/HTTP, forwarding the caller's bearer token when present. Failures
// are never retried; non-2xx responses surface with status and body.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
}

var _ storefront.Backend = (*Client)(nil)

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the REST proxy backend from the API configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(base, "/"),
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) Mode() storefront.Mode { return storefront.ModeREST }

func (c *Client) Categories(ctx context.Context) ([]storefront.Category, error) {
	body, err := c.get(ctx, "/products/categories/", nil)
	if err != nil {
		return nil, err
	}
	return listOrEmpty[storefront.Category](ctx, c.logg, "categories", body), nil
}

func (c *Client) CategoryBySlug(ctx context.Context, slug string) (*storefront.Category, error) {
	var category storefront.Category
	if err := c.do(ctx, http.MethodGet, "/products/categories/"+url.PathEscape(slug)+"/", nil, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) Products(ctx context.Context, filter storefront.ProductFilter) ([]storefront.Product, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Featured != nil {
		query.Set("is_featured", strconv.FormatBool(*filter.Featured))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		query.Set("offset", strconv.Itoa(filter.Offset))
	}

	body, err := c.get(ctx, "/products/products/", query)
	if err != nil {
		return nil, err
	}
	return listOrEmpty[storefront.Product](ctx, c.logg, "products", body), nil
}

func (c *Client) ProductBySlug(ctx context.Context, slug string) (*storefront.Product, error) {
	var product storefront.Product
	if err := c.do(ctx, http.MethodGet, "/products/products/"+url.PathEscape(slug)+"/", nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) FeaturedProducts(ctx context.Context, limit int) ([]storefront.Product, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	body, err := c.get(ctx, "/products/products/featured/", query)
	if err != nil {
		return nil, err
	}
	return listOrEmpty[storefront.Product](ctx, c.logg, "featured products", body), nil
}

func (c *Client) ProductsByCategory(ctx context.Context) ([]storefront.CategoryProducts, error) {
	body, err := c.get(ctx, "/products/products/by_category/", nil)
	if err != nil {
		return nil, err
	}
	return listOrEmpty[storefront.CategoryProducts](ctx, c.logg, "products by category", body), nil
}

type authResponse struct {
	User    storefront.User `json:"user"`
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
}

func sessionFromResponse(resp authResponse) *storefront.AuthSession {
	return &storefront.AuthSession{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		User:         resp.User,
	}
}

func (c *Client) Register(ctx context.Context, input storefront.RegisterInput) (*storefront.AuthSession, error) {
	payload := map[string]string{
		"email":      input.Email,
		"username":   input.Username,
		"password":   input.Password,
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/users/register/", nil, payload, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(resp), nil
}

func (c *Client) Login(ctx context.Context, input storefront.LoginInput) (*storefront.AuthSession, error) {
	payload := map[string]string{
		"email":    input.Email,
		"password": input.Password,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/users/login/", nil, payload, &resp); err != nil {
		return nil, err
	}
	return sessionFromResponse(resp), nil
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	payload := map[string]string{"refresh": refreshToken}
	return c.do(ctx, http.MethodPost, "/users/logout/", nil, payload, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (*storefront.User, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	var user storefront.User
	if err := c.do(ctx, http.MethodGet, "/users/profile/me/", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DefaultWishlist(ctx context.Context) (*storefront.Wishlist, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	var wishlist storefront.Wishlist
	if err := c.do(ctx, http.MethodGet, "/products/wishlists/default/", nil, nil, &wishlist); err != nil {
		return nil, err
	}
	return &wishlist, nil
}

func (c *Client) AddWishlistItem(ctx context.Context, productID uuid.UUID) (*storefront.Wishlist, error) {
	wishlist, err := c.DefaultWishlist(ctx)
	if err != nil {
		return nil, err
	}
	payload := map[string]string{"product_id": productID.String()}
	path := "/products/wishlists/" + wishlist.ID.String() + "/add_item/"
	if err := c.do(ctx, http.MethodPost, path, nil, payload, nil); err != nil {
		return nil, err
	}
	return c.DefaultWishlist(ctx)
}

func (c *Client) RemoveWishlistItem(ctx context.Context, productID uuid.UUID) error {
	wishlist, err := c.DefaultWishlist(ctx)
	if err != nil {
		return err
	}
	for _, item := range wishlist.Items {
		if item.Product.ID != productID {
			continue
		}
		payload := map[string]string{"item_id": item.ID.String()}
		path := "/products/wishlists/" + wishlist.ID.String() + "/remove_item/"
		return c.do(ctx, http.MethodDelete, path, nil, payload, nil)
	}
	// already absent, removal is idempotent
	return nil
}

func (c *Client) WishlistProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	wishlist, err := c.DefaultWishlist(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(wishlist.Items))
	for _, item := range wishlist.Items {
		ids = append(ids, item.Product.ID)
	}
	return ids, nil
}

func (c *Client) CurrentCart(ctx context.Context) (*storefront.Cart, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	var cart storefront.Cart
	if err := c.do(ctx, http.MethodGet, "/products/cart/current/", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, input storefront.AddCartItemInput) (*storefront.Cart, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"product_id": input.ProductID.String(),
		"quantity":   input.Quantity,
	}
	if input.VariantID != nil {
		payload["variant_id"] = input.VariantID.String()
	}
	var cart storefront.Cart
	if err := c.do(ctx, http.MethodPost, "/products/cart/add_item/", nil, payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*storefront.Cart, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"item_id":  itemID.String(),
		"quantity": quantity,
	}
	var cart storefront.Cart
	if err := c.do(ctx, http.MethodPatch, "/products/cart/update_item/", nil, payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID uuid.UUID) (*storefront.Cart, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	payload := map[string]string{"item_id": itemID.String()}
	var cart storefront.Cart
	if err := c.do(ctx, http.MethodDelete, "/products/cart/remove_item/", nil, payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) (*storefront.Cart, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	var cart storefront.Cart
	if err := c.do(ctx, http.MethodPost, "/products/cart/clear/", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ProductReviews(ctx context.Context, productID uuid.UUID) ([]storefront.Review, error) {
	query := url.Values{}
	query.Set("product", productID.String())
	body, err := c.get(ctx, "/products/reviews/", query)
	if err != nil {
		return nil, err
	}
	return listOrEmpty[storefront.Review](ctx, c.logg, "reviews", body), nil
}

func (c *Client) CreateReview(ctx context.Context, input storefront.CreateReviewInput) (*storefront.Review, error) {
	if _, err := storefront.RequireIdentity(ctx); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"product_id": input.ProductID.String(),
		"rating":     input.Rating,
		"title":      input.Title,
		"comment":    input.Comment,
	}
	var review storefront.Review
	if err := c.do(ctx, http.MethodPost, "/products/reviews/", nil, payload, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// get issues a GET and returns the raw response body for tagged-union
// list decoding.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request payload")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if identity, ok := storefront.IdentityFromContext(ctx); ok && identity.Token != "" {
		req.Header.Set("Authorization", "Bearer "+identity.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute upstream request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return responseError(resp.StatusCode, msg)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upstream response")
	}
	return nil
}

// responseError maps an upstream status to a coded error carrying the
// status and body so callers can react (401 triggers re-auth upstream).
func responseError(status int, body []byte) error {
	cause := fmt.Errorf("upstream status %d: %s", status, strings.TrimSpace(string(body)))
	switch {
	case status == http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, "upstream rejected credentials")
	case status == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, cause, "upstream denied access")
	case status == http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "upstream resource not found")
	case status >= 400 && status < 500:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, "upstream rejected request")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "upstream request failed")
	}
}

// listOrEmpty applies the degrade-gracefully read policy: a payload that is
// neither a bare array nor a results envelope yields an empty list and a
// logged warning, never an error.
func listOrEmpty[T any](ctx context.Context, logg *logger.Logger, resource string, body []byte) []T {
	items, err := decodeList[T](body)
	if err != nil {
		ctx = logg.WithField(ctx, "resource", resource)
		logg.Warn(ctx, "unrecognized list payload, returning empty result")
		return []T{}
	}
	return items
}
