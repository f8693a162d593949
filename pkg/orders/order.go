// Package orders lists commerce orders through the paginated fetcher and
// translates operator filter selections into backend query parameters.
package orders

import (
	"github.com/warehousekit/fulfillment-client/pkg/gateway"
)

// Order is one commerce order as listed by the backend.
type Order struct {
	// ID is the server-assigned identifier. Wide identifiers arrive as
	// "n"-suffixed strings and are normalized by gateway.BigID.
	ID gateway.BigID `json:"orderId"`

	OrderNo       string  `json:"orderNo"`
	Source        string  `json:"source"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"paymentStatus"`
	CustomerName  string  `json:"customerName"`
	ItemCount     int     `json:"itemCount"`
	TotalAmount   float64 `json:"totalAmount"`
	OrderDate     string  `json:"orderDate"`
}

// Key returns the stable string form of the order identifier, used when
// selecting orders for fulfillment.
func (o Order) Key() string {
	return o.ID.String()
}
