package fulfillment

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/warehousekit/fulfillment-client/pkg/gateway"
)

// Endpoints holds the fulfillment endpoint paths. Exact paths are
// deployment configuration, not part of the workflow contract.
type Endpoints struct {
	Simulate string
	Create   string
	Update   string // fmt verb for the fulfillment id
	Finalize string // fmt verb for the fulfillment id
}

// DefaultEndpoints returns the standard backend paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Simulate: "/api/fulfillments/simulate",
		Create:   "/api/fulfillments",
		Update:   "/api/fulfillments/%s",
		Finalize: "/api/fulfillments/%s/finalize",
	}
}

func (e Endpoints) updatePath(fulfillmentID string) string {
	return fmt.Sprintf(e.Update, fulfillmentID)
}

func (e Endpoints) finalizePath(fulfillmentID string) string {
	return fmt.Sprintf(e.Finalize, fulfillmentID)
}

// simulateRequest is the body of the simulation call.
type simulateRequest struct {
	OrderIDs     []string     `json:"orderIds"`
	LocationID   string       `json:"locationId"`
	LocationType LocationType `json:"locationType"`
}

// simulateResponse is the simulation result envelope.
type simulateResponse struct {
	Items []simulatedItem `json:"items"`
}

// simulatedItem is one candidate pick as the backend reports it. The
// backend mixes field names for the same concept across versions, so the
// mapping below resolves them in a documented priority order instead of
// letting the ambiguity leak into PicklistLine.
type simulatedItem struct {
	LineID    string        `json:"lineId"`
	ProductID gateway.BigID `json:"productId"`

	// Item name arrives under itemName (newer) or productName (older).
	ItemName    string `json:"itemName"`
	ProductName string `json:"productName"`

	// Quantity is the required quantity; absent means the backend left it
	// implicit and one unit is assumed.
	Quantity *int `json:"quantity"`

	AvailableQuantity *int          `json:"availableQuantity"`
	LocationLabel     string        `json:"locationLabel"`
	Bin               *BinReference `json:"bin"`
	LocationHints     []string      `json:"locationHints"`
}

// lineFromWire normalizes a simulated item into a PicklistLine.
func lineFromWire(item simulatedItem) PicklistLine {
	name := item.ItemName
	if name == "" {
		name = item.ProductName
	}

	// Defensive fallback, not a business rule: a missing quantity means
	// one unit.
	required := 1
	if item.Quantity != nil && *item.Quantity >= 0 {
		required = *item.Quantity
	}

	id := item.LineID
	if id == "" {
		id = uuid.NewString()
	}

	return PicklistLine{
		ID:                id,
		ProductID:         item.ProductID.String(),
		ProductName:       name,
		LocationLabel:     item.LocationLabel,
		RequiredQuantity:  required,
		PickedQuantity:    0,
		AvailableQuantity: item.AvailableQuantity,
		Bin:               item.Bin,
		LocationHints:     item.LocationHints,
	}
}

// lineWire is one picklist line in create/update payloads.
type lineWire struct {
	LineID           string `json:"lineId"`
	ProductID        string `json:"productId"`
	RequiredQuantity int    `json:"requiredQuantity"`
	PickedQuantity   int    `json:"pickedQuantity"`
}

func linesToWire(lines []PicklistLine) []lineWire {
	wire := make([]lineWire, len(lines))
	for i, line := range lines {
		wire[i] = lineWire{
			LineID:           line.ID,
			ProductID:        line.ProductID,
			RequiredQuantity: line.RequiredQuantity,
			PickedQuantity:   line.PickedQuantity,
		}
	}
	return wire
}

// createRequest is the body of the create call.
type createRequest struct {
	OrderIDs   []string   `json:"orderIds"`
	LocationID string     `json:"locationId"`
	Lines      []lineWire `json:"lines"`
}

// updateRequest is the body of the update call.
type updateRequest struct {
	Lines []lineWire `json:"lines"`
}

// fulfillmentResponse carries the server-assigned identifier returned by
// both create and update.
type fulfillmentResponse struct {
	FulfillmentID string `json:"fulfillmentId"`
}
