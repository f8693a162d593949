package orders

import (
	"context"
	"time"

	"github.com/warehousekit/fulfillment-client/pkg/gateway"
	"github.com/warehousekit/fulfillment-client/pkg/pagination"
)

// DefaultOrdersPath is the default order listing endpoint.
const DefaultOrdersPath = "/api/orders"

// ServiceConfig holds the order listing configuration.
type ServiceConfig struct {
	// OrdersPath overrides the listing endpoint (deployment config).
	OrdersPath string

	// PageSize per request.
	PageSize int

	// Now overrides the clock used for date-range filters (for testing).
	Now func() time.Time
}

// Service owns the live order list: one paginated fetcher whose query
// parameters track the operator's filter selection.
type Service struct {
	fetcher *pagination.Fetcher[Order]
	now     func() time.Time
}

// NewService creates an order listing service on top of the gateway.
func NewService(gw *gateway.Gateway, cfg ServiceConfig) *Service {
	if cfg.OrdersPath == "" {
		cfg.OrdersPath = DefaultOrdersPath
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	source := pagination.NewGatewaySource[Order](gw)
	spec := pagination.NewQuerySpec(cfg.OrdersPath, nil)

	return &Service{
		fetcher: pagination.NewFetcher[Order](source, spec, cfg.PageSize),
		now:     cfg.Now,
	}
}

// Fetcher exposes the underlying collection for direct control.
func (s *Service) Fetcher() *pagination.Fetcher[Order] {
	return s.fetcher
}

// Subscribe registers a listener for order list snapshots.
func (s *Service) Subscribe(listener pagination.Listener[Order]) func() {
	return s.fetcher.Subscribe(listener)
}

// LoadFirstPage loads the first page of orders under the current filters.
func (s *Service) LoadFirstPage(ctx context.Context) error {
	return s.fetcher.LoadFirstPage(ctx)
}

// LoadNextPage appends the next page of orders, if any.
func (s *Service) LoadNextPage(ctx context.Context) error {
	return s.fetcher.LoadNextPage(ctx)
}

// ApplyFilters translates the selection into query parameters and installs
// them as the full parameter set; the fetcher resets and reloads only when
// the effective query actually changed and pages were already loaded.
func (s *Service) ApplyFilters(ctx context.Context, sel FilterSelection) error {
	return s.fetcher.SetParams(ctx, BuildParams(sel, s.now()))
}
