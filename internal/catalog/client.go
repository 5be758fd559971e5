package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/berrythread/storefront-api/internal/variants"
	"github.com/berrythread/storefront-api/pkg/config"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
)

// Client talks to the remote catalog/order API. All inventory, pricing and
// payment decisions stay upstream; this client only fetches and submits.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient builds a catalog API client from the upstream section of config.
func NewClient(cfg config.UpstreamConfig) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base url required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid upstream base url: %w", err)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		userAgent:  cfg.UserAgent,
	}, nil
}

// GetProduct fetches a single product by slug. Responses carrying a different
// slug than the one requested are treated as a dependency failure so a slow
// response can never be rendered under the wrong product.
func (c *Client) GetProduct(ctx context.Context, slug string) (*variants.Product, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}

	var payload productPayload
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(slug), &payload); err != nil {
		return nil, err
	}
	if payload.Slug != slug {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "upstream returned a mismatched product").
			WithDetails(map[string]string{"requested": slug, "received": payload.Slug})
	}
	product := payload.toDomain()
	return &product, nil
}

// ListProducts fetches the full published product list.
func (c *Client) ListProducts(ctx context.Context) ([]variants.Product, error) {
	var payload listProductsPayload
	if err := c.getJSON(ctx, "/products", &payload); err != nil {
		return nil, err
	}
	products := make([]variants.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, p.toDomain())
	}
	return products, nil
}

// GetFundraiser fetches a fundraiser campaign by slug.
func (c *Client) GetFundraiser(ctx context.Context, slug string) (*Fundraiser, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fundraiser slug required")
	}
	var payload Fundraiser
	if err := c.getJSON(ctx, "/fundraisers/"+url.PathEscape(slug), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetStorefrontConfig fetches the store-wide settings document.
func (c *Client) GetStorefrontConfig(ctx context.Context) (*StorefrontConfig, error) {
	var payload StorefrontConfig
	if err := c.getJSON(ctx, "/storefront/config", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateOrder submits an order. The upstream deduplicates on the client token.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	if req.ClientToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order client token required")
	}
	var payload OrderResponse
	if err := c.postJSON(ctx, "/orders", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreatePaymentIntent asks the upstream to open a payment intent for an order.
func (c *Client) CreatePaymentIntent(ctx context.Context, orderID int64) (*PaymentIntent, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	var payload PaymentIntent
	path := fmt.Sprintf("/orders/%d/payment-intent", orderID)
	if err := c.postJSON(ctx, path, struct{}{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upstream request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call catalog api")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return upstreamError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog api response")
	}
	return nil
}

// upstreamError maps remote failures onto local error codes. The remote error
// body is decoded best-effort; an unreadable body still yields a coded error.
func upstreamError(resp *http.Response) error {
	var remote struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, &remote)

	message := remote.Error.Message
	if message == "" {
		message = fmt.Sprintf("catalog api returned status %d", resp.StatusCode)
	}

	var code pkgerrors.Code
	switch resp.StatusCode {
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusConflict:
		code = pkgerrors.CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		code = pkgerrors.CodeValidation
	default:
		code = pkgerrors.CodeDependency
	}
	return pkgerrors.New(code, message)
}
