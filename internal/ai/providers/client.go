package providers

import (
	"context"
	"log/slog"
	"net/http"

	"llmpick/internal/ai"
)

// CatalogClient defines the catalog operations the picker screen depends on.
type CatalogClient interface {
	LoadCatalog(ctx context.Context, opts CatalogOptions) (ai.ProviderCatalog, error)
	RefreshProvider(ctx context.Context, name string, opts CatalogOptions) (ai.ProviderEntry, error)
}

// Client loads catalogs from the providers' HTTP APIs.
type Client struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a Client that logs to logger.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Logger:     logger,
	}
}

func (c *Client) fill(opts CatalogOptions) CatalogOptions {
	if opts.HTTPClient == nil {
		opts.HTTPClient = c.HTTPClient
	}
	if opts.Logger == nil {
		opts.Logger = c.Logger
	}
	return opts
}

// LoadCatalog loads every provider selected by opts.
func (c *Client) LoadCatalog(ctx context.Context, opts CatalogOptions) (ai.ProviderCatalog, error) {
	return LoadCatalog(ctx, c.fill(opts))
}

// RefreshProvider re-fetches one provider, ignoring the cache.
func (c *Client) RefreshProvider(ctx context.Context, name string, opts CatalogOptions) (ai.ProviderEntry, error) {
	return RefreshProvider(ctx, name, c.fill(opts))
}

var _ CatalogClient = (*Client)(nil)
