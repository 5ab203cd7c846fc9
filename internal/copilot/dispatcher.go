package copilot

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/luminacommerce/copilot-actions/internal/cart"
	"github.com/luminacommerce/copilot-actions/internal/catalog"
	"github.com/luminacommerce/copilot-actions/internal/pincode"
	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	"github.com/luminacommerce/copilot-actions/pkg/config"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/luminacommerce/copilot-actions/pkg/metrics"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
	"github.com/luminacommerce/copilot-actions/pkg/types"
)

const (
	ActionAddToCart      = "add_to_cart"
	ActionAddFromListing = "add_products_from_listing"
	ActionClearCart      = "clear_cart"
	ActionCheckPincode   = "check_pincode"
	ActionProductInfo    = "get_product_info"
	ActionRedirect       = "redirect"
)

type snapshotStore interface {
	Snapshot(ctx context.Context, sessionID string) (*statestore.Snapshot, error)
}

// invocation carries everything one action run needs: the caller's session,
// its state snapshot and the raw parameter map.
type invocation struct {
	sessionID string
	snap      *statestore.Snapshot
	params    map[string]any
}

type handlerFunc func(ctx context.Context, inv *invocation) types.ActionResult

// Dispatcher maps a named action and its parameter map onto one of the
// resolution pipelines and normalizes every outcome into an ActionResult.
// Nothing escapes it: pipeline failures become typed envelopes and panics
// are converted at this boundary.
type Dispatcher struct {
	gateway  commerce.Gateway
	store    snapshotStore
	pincodes *pincode.Resolver
	catalog  *catalog.Resolver
	mutator  *cart.Mutator
	metrics  *metrics.ActionMetrics
	logg     *logger.Logger

	actionTimeout time.Duration
	maxBatchSize  int

	handlers map[string]handlerFunc
}

func NewDispatcher(
	gateway commerce.Gateway,
	store snapshotStore,
	pincodes *pincode.Resolver,
	catalogResolver *catalog.Resolver,
	mutator *cart.Mutator,
	actionMetrics *metrics.ActionMetrics,
	logg *logger.Logger,
	cfg config.DispatchConfig,
) (*Dispatcher, error) {
	if gateway == nil {
		return nil, stdErrors.New("commerce gateway is required")
	}
	if pincodes == nil || catalogResolver == nil || mutator == nil {
		return nil, stdErrors.New("pipeline components are required")
	}
	if logg == nil {
		return nil, stdErrors.New("logger is required")
	}
	d := &Dispatcher{
		gateway:       gateway,
		store:         store,
		pincodes:      pincodes,
		catalog:       catalogResolver,
		mutator:       mutator,
		metrics:       actionMetrics,
		logg:          logg,
		actionTimeout: cfg.ActionTimeout,
		maxBatchSize:  cfg.MaxBatchSize,
	}
	if d.actionTimeout <= 0 {
		d.actionTimeout = 20 * time.Second
	}
	if d.maxBatchSize <= 0 {
		d.maxBatchSize = 10
	}
	d.handlers = map[string]handlerFunc{
		ActionAddToCart:      d.handleAddToCart,
		ActionAddFromListing: d.handleAddFromListing,
		ActionClearCart:      d.handleClearCart,
		ActionCheckPincode:   d.handleCheckPincode,
		ActionProductInfo:    d.handleProductInfo,
		ActionRedirect:       d.handleRedirect,
	}
	return d, nil
}

// Actions lists the registered action names.
func (d *Dispatcher) Actions() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs one named action to completion under the configured
// wall-clock timeout and always returns an envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID, action string, params map[string]any) (result types.ActionResult) {
	started := time.Now()

	ctx, cancel := context.WithTimeout(ctx, d.actionTimeout)
	defer cancel()
	ctx = d.logg.WithFields(ctx, map[string]any{
		"action":     action,
		"session_id": sessionID,
	})

	defer func() {
		if recovered := recover(); recovered != nil {
			d.logg.Error(ctx, "action panicked", fmt.Errorf("panic: %v", recovered))
			result = types.Fail(pkgerrors.New(pkgerrors.CodeInternal, "something went wrong, please try again"))
		}
		d.record(action, time.Since(started), result)
	}()

	handler, ok := d.handlers[action]
	if !ok {
		return types.Fail(pkgerrors.New(pkgerrors.CodeUnknownAction,
			fmt.Sprintf("unknown action %q", action)).
			WithDetails(map[string]any{"actions": d.Actions()}))
	}

	result = handler(ctx, &invocation{
		sessionID: sessionID,
		snap:      d.snapshot(ctx, sessionID),
		params:    params,
	})
	if result.Success {
		d.logg.Info(ctx, fmt.Sprintf("action completed: %s", result.Message))
	} else {
		d.logg.Warn(ctx, fmt.Sprintf("action failed: %s", result.Message))
	}
	return result
}

// snapshot reads the session state best-effort; the pipelines treat a
// missing snapshot the same as an empty one.
func (d *Dispatcher) snapshot(ctx context.Context, sessionID string) *statestore.Snapshot {
	if d.store == nil || sessionID == "" {
		return &statestore.Snapshot{}
	}
	snap, err := d.store.Snapshot(ctx, sessionID)
	if err != nil {
		d.logg.Warn(ctx, fmt.Sprintf("session snapshot unavailable: %v", err))
		return &statestore.Snapshot{}
	}
	return snap
}

func (d *Dispatcher) record(action string, elapsed time.Duration, result types.ActionResult) {
	d.metrics.ObserveDuration(action, elapsed)
	if result.Success {
		d.metrics.IncSuccess(action)
		return
	}
	code := ""
	if result.Data != nil {
		code, _ = result.Data["error_code"].(string)
	}
	d.metrics.IncFailure(action, code)
}
