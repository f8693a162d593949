package fulfillment

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warehousekit/fulfillment-client/pkg/gateway"
)

// Prometheus metrics for the fulfillment workflow.
var (
	stageTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_stage_transitions_total",
		Help: "Total fulfillment stage transitions by from/to stage",
	}, []string{"from", "to"})

	simulateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fulfillment_simulate_duration_seconds",
		Help:    "Duration of fulfillment simulation calls in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})
)

// Controller drives one fulfillment session through its lifecycle. The
// session is owned by a single logical consumer; the mutex only protects
// against accidental cross-goroutine use.
type Controller struct {
	mu        sync.Mutex
	gw        *gateway.Gateway
	endpoints Endpoints
	session   *Session
	logger    zerolog.Logger
}

// NewController creates a workflow controller on top of the gateway.
func NewController(gw *gateway.Gateway, endpoints Endpoints) *Controller {
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints()
	}
	return &Controller{
		gw:        gw,
		endpoints: endpoints,
		logger:    log.With().Str("component", "fulfillment").Logger(),
	}
}

// Session returns a copy of the active session, or false when none exists.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return c.session.clone(), true
}

// Start simulates a fresh fulfillment for the given orders and location
// and installs the resulting session in READY_TO_SUBMIT. A simulation
// failure surfaces as an error and leaves any prior session untouched.
func (c *Controller) Start(ctx context.Context, orderIDs []string, locationID string, locationType LocationType) error {
	return c.start(ctx, "", orderIDs, locationID, locationType)
}

// Resume re-enters an existing server-side draft: the session is rebuilt
// by simulation but keeps the known fulfillment id, so submission routes
// through update instead of create.
func (c *Controller) Resume(ctx context.Context, fulfillmentID string, orderIDs []string, locationID string, locationType LocationType) error {
	if fulfillmentID == "" {
		return ErrNoFulfillmentID
	}
	return c.start(ctx, fulfillmentID, orderIDs, locationID, locationType)
}

func (c *Controller) start(ctx context.Context, fulfillmentID string, orderIDs []string, locationID string, locationType LocationType) error {
	if len(orderIDs) == 0 {
		return ErrNoOrders
	}
	if locationID == "" {
		return ErrNoLocation
	}

	c.logger.Info().
		Strs("order_ids", orderIDs).
		Str("location_id", locationID).
		Str("location_type", string(locationType)).
		Msg("Simulating fulfillment")

	startTime := time.Now()
	var resp simulateResponse
	err := c.gw.Post(ctx, c.endpoints.Simulate, simulateRequest{
		OrderIDs:     orderIDs,
		LocationID:   locationID,
		LocationType: locationType,
	}, &resp)
	simulateDuration.Observe(time.Since(startTime).Seconds())

	if err != nil {
		c.logger.Warn().Err(err).Msg("Simulation failed")
		return err
	}

	lines := make([]PicklistLine, len(resp.Items))
	for i, item := range resp.Items {
		lines[i] = lineFromWire(item)
	}

	session := &Session{
		OrderIDs:      append([]string(nil), orderIDs...),
		LocationID:    locationID,
		LocationType:  locationType,
		Lines:         lines,
		FulfillmentID: fulfillmentID,
		Stage:         StageSimulating,
	}

	c.mu.Lock()
	c.session = session
	err = c.transitionLocked(StageReadyToSubmit)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.logger.Info().Int("lines", len(lines)).Msg("Simulation complete")
	return nil
}

// SetPickedQuantity sets a line's picked quantity, clamped into
// [0, RequiredQuantity], and returns the effective value. Out-of-range
// values are silently corrected, not rejected.
func (c *Controller) SetPickedQuantity(lineID string, quantity int) (int, error) {
	return c.adjust(lineID, func(line *PicklistLine) int {
		return quantity
	})
}

// AddPickedQuantity adjusts a line's picked quantity by delta with the
// same clamping as SetPickedQuantity.
func (c *Controller) AddPickedQuantity(lineID string, delta int) (int, error) {
	return c.adjust(lineID, func(line *PicklistLine) int {
		return line.PickedQuantity + delta
	})
}

func (c *Controller) adjust(lineID string, next func(*PicklistLine) int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return 0, ErrNoSession
	}
	if c.session.Stage != StageReadyToSubmit {
		return 0, ErrNotAdjustable
	}

	for i := range c.session.Lines {
		line := &c.session.Lines[i]
		if line.ID != lineID {
			continue
		}
		line.PickedQuantity = clampQuantity(next(line), line.RequiredQuantity)
		return line.PickedQuantity, nil
	}
	return 0, ErrUnknownLine
}

// HasPickedLines reports whether any line has a picked quantity above
// zero. Submission is allowed exactly when this holds.
func (c *Controller) HasPickedLines() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return false
	}
	for _, line := range c.session.Lines {
		if line.PickedQuantity > 0 {
			return true
		}
	}
	return false
}

// FullyPicked reports whether every line is fully picked. Display only;
// partial fulfillment is permitted.
func (c *Controller) FullyPicked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return false
	}
	for _, line := range c.session.Lines {
		if !line.FullyPicked() {
			return false
		}
	}
	return true
}

// BinGroup is a display grouping of picklist lines by bin label.
type BinGroup struct {
	Label string
	Lines []PicklistLine
}

// LinesByBin groups the session's lines by bin name (falling back to the
// location label) in first-appearance order.
func (c *Controller) LinesByBin() []BinGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}

	var groups []BinGroup
	index := make(map[string]int)
	for _, line := range c.session.Lines {
		label := line.LocationLabel
		if line.Bin != nil && line.Bin.BinName != "" {
			label = line.Bin.BinName
		}

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, BinGroup{Label: label})
		}
		groups[i].Lines = append(groups[i].Lines, line.clone())
	}
	return groups
}

// Submit commits the picklist: create when the session has no fulfillment
// id yet, update otherwise. On success the server-assigned id is recorded
// and the session moves to PACKING; on failure it returns to
// READY_TO_SUBMIT with all lines preserved.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}

	picked := false
	for _, line := range c.session.Lines {
		if line.PickedQuantity > 0 {
			picked = true
			break
		}
	}
	if !picked {
		c.mu.Unlock()
		return ErrNothingPicked
	}

	if err := c.transitionLocked(StageSubmitting); err != nil {
		c.mu.Unlock()
		return err
	}

	existingID := c.session.FulfillmentID
	orderIDs := append([]string(nil), c.session.OrderIDs...)
	locationID := c.session.LocationID
	lines := linesToWire(c.session.Lines)
	c.mu.Unlock()

	var resp fulfillmentResponse
	var err error
	if existingID != "" {
		c.logger.Info().Str("fulfillment_id", existingID).Msg("Updating fulfillment")
		err = c.gw.Put(ctx, c.endpoints.updatePath(existingID), updateRequest{Lines: lines}, &resp)
	} else {
		c.logger.Info().Strs("order_ids", orderIDs).Msg("Creating fulfillment")
		err = c.gw.Post(ctx, c.endpoints.Create, createRequest{
			OrderIDs:   orderIDs,
			LocationID: locationID,
			Lines:      lines,
		}, &resp)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Msg("Fulfillment submission failed")
		if terr := c.transitionLocked(StageReadyToSubmit); terr != nil {
			return terr
		}
		return err
	}

	if resp.FulfillmentID != "" {
		c.session.FulfillmentID = resp.FulfillmentID
	}
	if err := c.transitionLocked(StagePacking); err != nil {
		return err
	}

	c.logger.Info().Str("fulfillment_id", c.session.FulfillmentID).Msg("Fulfillment submitted")
	return nil
}

// Finalize completes packing. The call is an idempotent intent keyed by
// the fulfillment id; on success the session reaches the terminal
// FINALIZED stage, on failure it returns to PACKING. The server is the
// source of truth for fulfillment status afterwards.
func (c *Controller) Finalize(ctx context.Context) error {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return ErrNoSession
	}
	if c.session.FulfillmentID == "" {
		c.mu.Unlock()
		return ErrNoFulfillmentID
	}
	if err := c.transitionLocked(StageFinalizing); err != nil {
		c.mu.Unlock()
		return err
	}
	fulfillmentID := c.session.FulfillmentID
	c.mu.Unlock()

	err := c.gw.Post(ctx, c.endpoints.finalizePath(fulfillmentID), nil, nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Str("fulfillment_id", fulfillmentID).Msg("Finalize failed")
		if terr := c.transitionLocked(StagePacking); terr != nil {
			return terr
		}
		return err
	}

	if err := c.transitionLocked(StageFinalized); err != nil {
		return err
	}
	c.logger.Info().Str("fulfillment_id", fulfillmentID).Msg("Fulfillment finalized")
	return nil
}

// transitionLocked moves the session to the target stage. Called with
// c.mu held.
func (c *Controller) transitionLocked(to Stage) error {
	from := c.session.Stage
	if !from.CanTransitionTo(to) {
		return transitionError(from, to)
	}
	c.session.Stage = to
	stageTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	c.logger.Debug().
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Stage transition")
	return nil
}
