package pagination

import (
	"context"
	"net/url"
	"strconv"

	"github.com/warehousekit/fulfillment-client/pkg/gateway"
)

// Source fetches one page of a collection. Implementations must be safe
// for concurrent use across fetchers.
type Source[T any] interface {
	FetchPage(ctx context.Context, spec QuerySpec, pageNo, pageSize int) (Envelope[T], error)
}

// GatewaySource adapts the backend gateway to the Source interface, adding
// the pageNo/pageSize parameters of the paginated endpoint contract.
type GatewaySource[T any] struct {
	gw *gateway.Gateway
}

// NewGatewaySource creates a gateway-backed page source.
func NewGatewaySource[T any](gw *gateway.Gateway) *GatewaySource[T] {
	return &GatewaySource[T]{gw: gw}
}

// FetchPage implements Source.
func (s *GatewaySource[T]) FetchPage(ctx context.Context, spec QuerySpec, pageNo, pageSize int) (Envelope[T], error) {
	query := url.Values{}
	for key, value := range spec.Params {
		query.Set(key, value)
	}
	query.Set("pageNo", strconv.Itoa(pageNo))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var env Envelope[T]
	if err := s.gw.Get(ctx, spec.Endpoint, query, &env); err != nil {
		return Envelope[T]{}, err
	}
	return env, nil
}
