// Package fulfillment drives the picklist workflow: simulate what is
// pickable for a set of orders at a location, let the operator adjust
// picked quantities, then create/update, pack, and finalize the
// fulfillment on the server.
package fulfillment

import (
	"errors"
	"fmt"
)

// Errors returned by the workflow.
var (
	ErrNoOrders          = errors.New("fulfillment requires at least one order")
	ErrNoLocation        = errors.New("fulfillment requires a location")
	ErrNoSession         = errors.New("no active fulfillment session")
	ErrUnknownLine       = errors.New("unknown picklist line")
	ErrNothingPicked     = errors.New("at least one line must have a picked quantity")
	ErrNotAdjustable     = errors.New("lines can only be adjusted before submission")
	ErrNoFulfillmentID   = errors.New("fulfillment has not been created yet")
	ErrInvalidTransition = errors.New("invalid fulfillment stage transition")
)

// LocationType distinguishes the kind of fulfillment location.
type LocationType string

const (
	LocationStore     LocationType = "STORE"
	LocationWarehouse LocationType = "WAREHOUSE"
)

// Stage is the workflow stage of a fulfillment session.
type Stage string

const (
	StageSimulating    Stage = "SIMULATING"
	StageReadyToSubmit Stage = "READY_TO_SUBMIT"
	StageSubmitting    Stage = "SUBMITTING"
	StagePacking       Stage = "PACKING"
	StageFinalizing    Stage = "FINALIZING"
	StageFinalized     Stage = "FINALIZED"
)

// validTransitions defines the allowed stage transitions. Failure paths
// (submit or finalize rejected by the server) fall back to the stage the
// operator can act from.
var validTransitions = map[Stage][]Stage{
	StageSimulating:    {StageReadyToSubmit},
	StageReadyToSubmit: {StageSubmitting},
	StageSubmitting:    {StagePacking, StageReadyToSubmit},
	StagePacking:       {StageFinalizing},
	StageFinalizing:    {StageFinalized, StagePacking},
	StageFinalized:     {}, // terminal
}

// CanTransitionTo reports whether the stage may move to target.
func (s Stage) CanTransitionTo(target Stage) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// BinReference points at the physical bin an item is stored in.
type BinReference struct {
	BinID      string `json:"binId"`
	BinName    string `json:"binName"`
	LocationID string `json:"locationId"`
}

// PicklistLine is one product to pick for a fulfillment.
//
// PickedQuantity always satisfies 0 <= PickedQuantity <= RequiredQuantity;
// adjustments outside that range are clamped, not rejected, because
// free-text entry and increment controls transiently overshoot.
type PicklistLine struct {
	ID                string
	ProductID         string
	ProductName       string
	LocationLabel     string
	RequiredQuantity  int
	PickedQuantity    int
	AvailableQuantity *int
	Bin               *BinReference
	LocationHints     []string
}

// FullyPicked reports whether the line's picked quantity meets the
// requirement.
func (l PicklistLine) FullyPicked() bool {
	return l.PickedQuantity >= l.RequiredQuantity
}

// Session is the workflow aggregate for one fulfillment attempt.
type Session struct {
	OrderIDs     []string
	LocationID   string
	LocationType LocationType
	Lines        []PicklistLine
	// FulfillmentID is set once the fulfillment exists on the server and
	// is authoritative for packing and finalize calls.
	FulfillmentID string
	Stage         Stage
}

// clone returns a deep copy safe to hand to callers.
func (s Session) clone() Session {
	copied := s
	copied.OrderIDs = append([]string(nil), s.OrderIDs...)
	copied.Lines = make([]PicklistLine, len(s.Lines))
	for i, line := range s.Lines {
		copied.Lines[i] = line.clone()
	}
	return copied
}

func (l PicklistLine) clone() PicklistLine {
	copied := l
	if l.AvailableQuantity != nil {
		v := *l.AvailableQuantity
		copied.AvailableQuantity = &v
	}
	if l.Bin != nil {
		b := *l.Bin
		copied.Bin = &b
	}
	copied.LocationHints = append([]string(nil), l.LocationHints...)
	return copied
}

// clampQuantity corrects a picked quantity into the line's valid range.
func clampQuantity(value, required int) int {
	if value < 0 {
		return 0
	}
	if value > required {
		return required
	}
	return value
}

// transitionError wraps ErrInvalidTransition with the attempted move.
func transitionError(from, to Stage) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
