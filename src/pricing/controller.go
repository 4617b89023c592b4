package pricing

import (
	"context"
	"sort"
	"sync"

	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"

	"go.uber.org/multierr"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	proposalMsgType        = "proposal"
	digitsForm             = "digits"
	defaultTooltipMinWidth = 500
)

// digitPairs overrides the digits form with the pair of the active sub-form.
var digitPairs = map[string][]string{
	"matchdiff": {"DIGITMATCH", "DIGITDIFF"},
	"evenodd":   {"DIGITEVEN", "DIGITODD"},
	"overunder": {"DIGITOVER", "DIGITUNDER"},
}

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// Dependencies are the collaborators of a Controller. Store may be nil.
type Dependencies struct {
	Transport interfaces.ITransport
	Form      interfaces.IFormReader
	Catalog   interfaces.IContractCatalog
	Defaults  interfaces.IDefaults
	Times     interfaces.ITradingTimes
	View      interfaces.IPriceView
	Locale    interfaces.ILocale
	Store     interfaces.IQuoteStore

	TooltipMinWidth int
}

// Controller turns form state into proposal subscriptions and renders the
// streamed quotes. All state and view mutation happens under mu.
type Controller struct {
	deps   Dependencies
	Logger *logger.Logger

	requestMu sync.Mutex // serialises ProcessPriceRequest

	mu       sync.Mutex
	formID   int64
	typeByID map[string]string

	wg sync.WaitGroup
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewController(deps Dependencies, log *logger.Logger) *Controller {
	if deps.TooltipMinWidth <= 0 {
		deps.TooltipMinWidth = defaultTooltipMinWidth
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Controller{
		deps:     deps,
		Logger:   log,
		typeByID: make(map[string]string),
	}
}

// -----------------------------------------------------------------------------
// State accessors
// -----------------------------------------------------------------------------

func (c *Controller) FormID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formID
}

func (c *Controller) IncrFormID() {
	c.mu.Lock()
	c.formID++
	c.mu.Unlock()
}

func (c *Controller) ResetFormID() {
	c.mu.Lock()
	c.formID = 0
	c.mu.Unlock()
}

func (c *Controller) ClearMapping() {
	c.mu.Lock()
	c.typeByID = make(map[string]string)
	c.mu.Unlock()
}

// TypeMapping returns a copy of the proposal id to contract type mapping.
func (c *Controller) TypeMapping() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.typeByID))
	for k, v := range c.typeByID {
		out[k] = v
	}
	return out
}

// -----------------------------------------------------------------------------
// Forget
// -----------------------------------------------------------------------------

// ProcessForgetProposals shows the loading overlay, cancels every proposal
// stream and clears the type mapping.
func (c *Controller) ProcessForgetProposals(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forgetLocked(ctx)
}

func (c *Controller) forgetLocked(ctx context.Context) error {
	c.deps.View.ShowPriceOverlay()
	err := c.deps.Transport.ForgetAll(ctx, proposalMsgType)
	if err != nil {
		c.Logger.Warning("forget_all failed: %v", err)
	}
	c.typeByID = make(map[string]string)
	return err
}

// -----------------------------------------------------------------------------
// Price request
// -----------------------------------------------------------------------------

// ProcessPriceRequest starts a new form generation: prior proposals are
// cancelled and one subscription is opened per contract type of the active
// form. Only responses echoing the new generation are displayed.
func (c *Controller) ProcessPriceRequest(ctx context.Context) error {
	c.requestMu.Lock()
	defer c.requestMu.Unlock()

	c.mu.Lock()
	c.formID++
	errs := c.forgetLocked(ctx)
	c.deps.View.ShowPriceOverlay()

	form := c.deps.Catalog.Form()
	labels := c.deps.Catalog.ContractTypes(form)
	types := c.activeTypes(form, labels)

	requests := make([]*models.MProposalRequest, 0, len(types))
	for _, contractType := range types {
		requests = append(requests, c.buildLocked(contractType))
	}
	generation := c.formID
	c.mu.Unlock()

	if len(requests) == 0 {
		c.Logger.Debug("No contract types for form '%s'", form)
		return errs
	}

	for _, req := range requests {
		stream, err := c.deps.Transport.Subscribe(ctx, req)
		if err != nil {
			c.Logger.Warning("Proposal for %s not sent: %v", req.ContractType, err)
			errs = multierr.Append(errs, err)
			continue
		}
		c.wg.Add(1)
		go c.consume(stream, labels)
	}

	c.Logger.Debug("Requested %d proposals for form '%s' (form_id=%d)", len(requests), form, generation)
	return errs
}

// activeTypes lists the contract types to price, sorted for a stable send order.
func (c *Controller) activeTypes(form string, labels map[string]string) []string {
	if form == digitsForm {
		if pair, ok := digitPairs[c.deps.Catalog.FormName()]; ok {
			return append([]string(nil), pair...)
		}
	}
	types := make([]string, 0, len(labels))
	for t := range labels {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// -----------------------------------------------------------------------------

func (c *Controller) consume(stream interfaces.IStream, labels map[string]string) {
	defer c.wg.Done()
	for resp := range stream.C() {
		c.handle(resp, labels)
	}
}

// handle displays resp if it belongs to the current generation.
func (c *Controller) handle(resp *models.MResponse, labels map[string]string) {
	c.mu.Lock()
	formID, ok := resp.EchoFormID()
	if !ok || formID != c.formID {
		c.mu.Unlock()
		return
	}
	c.deps.View.HideOverlayContainer()
	record := c.displayLocked(resp, labels)
	c.deps.View.HidePriceOverlay()
	c.mu.Unlock()

	c.save(record)
}

// Wait blocks until every stream reader has exited. Streams end when they
// are forgotten or the transport closes.
func (c *Controller) Wait() {
	c.wg.Wait()
}
