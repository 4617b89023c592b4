package pricing

import (
	"sort"
	"time"

	"price-quoter/src/interfaces"
	"price-quoter/src/models"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// -----------------------------------------------------------------------------
// Display
// -----------------------------------------------------------------------------

// Display renders resp into the slot of its contract type. labels maps
// contract types to headings. Responses without a resolvable slot are
// dropped silently.
func (c *Controller) Display(resp *models.MResponse, labels map[string]string) {
	c.mu.Lock()
	record := c.displayLocked(resp, labels)
	c.mu.Unlock()

	c.save(record)
}

// displayLocked applies resp to the view and returns the quote to persist,
// nil for errors and dropped frames.
func (c *Controller) displayLocked(resp *models.MResponse, labels map[string]string) *models.MQuoteRecord {
	if resp == nil {
		return nil
	}

	id := resp.ProposalID()
	contractType := resp.EchoContractType()
	if id != "" && contractType == "" {
		contractType = c.typeByID[id]
	}
	if id != "" && len(resp.EchoReq) > 0 {
		c.typeByID[id] = contractType
	}

	position := c.deps.Catalog.Position(contractType)
	if position == "" || !c.deps.View.HasSlot(position) {
		return nil
	}
	if resp.Error == nil && resp.Proposal == nil {
		return nil
	}

	prev, _ := c.deps.View.Slot(position)
	currency := c.currency()
	view := BuildSlotView(prev, resp, RenderParams{
		Position:        position,
		ContractType:    contractType,
		Label:           labels[contractType],
		Currency:        currency,
		ViewportWidth:   c.deps.View.ViewportWidth(),
		TooltipMinWidth: c.deps.TooltipMinWidth,
		FormHasErrors:   c.deps.Form.HasVisibleErrors(),
		Locale:          c.deps.Locale,
	})
	c.deps.View.ApplySlot(position, view)

	if resp.Error != nil {
		return nil
	}
	return &models.MQuoteRecord{
		ID:           uuid.NewString(),
		FormID:       c.formID,
		Position:     position,
		ContractType: contractType,
		ProposalID:   id,
		Symbol:       cast.ToString(resp.EchoReq["symbol"]),
		Currency:     currency,
		AskPrice:     resp.Proposal.AskPrice,
		DisplayValue: resp.Proposal.DisplayValue,
		Payout:       resp.Proposal.Payout,
		Longcode:     resp.Proposal.Longcode,
		Params:       encodeParams(resp.EchoReq),
		CreatedAt:    time.Now().UTC(),
	}
}

func (c *Controller) save(record *models.MQuoteRecord) {
	if record == nil || c.deps.Store == nil {
		return
	}
	if err := c.deps.Store.SaveQuote(*record); err != nil {
		c.Logger.Warning("Failed to log quote %s: %v", record.ProposalID, err)
	}
}

// -----------------------------------------------------------------------------
// Slot view
// -----------------------------------------------------------------------------

// RenderParams carries everything BuildSlotView needs besides the response.
type RenderParams struct {
	Position        string
	ContractType    string
	Label           string
	Currency        string
	ViewportWidth   int
	TooltipMinWidth int
	FormHasErrors   bool
	Locale          interfaces.ILocale
}

// BuildSlotView computes the next state of a slot from its previous state
// and a proposal response. It does not touch any view.
func BuildSlotView(prev models.MSlotView, resp *models.MResponse, p RenderParams) models.MSlotView {
	v := prev.Clone()
	v.Position = p.Position
	v.Visible = true
	if p.ContractType != "" && p.Label != "" {
		v.Heading = p.Label
		v.HeadingClass = "contract_heading " + p.ContractType
	}

	if resp.Error != nil {
		v.PurchaseVisible = false
		v.CommentVisible = false
		applyAmounts(&v, resp.Error.Details, p)
		v.ErrorVisible = true
		v.Error = resp.Error.Message
		return v
	}

	proposal := resp.Proposal
	applyAmounts(&v, proposal, p)
	v.PurchaseVisible = !p.FormHasErrors
	v.ErrorVisible = false
	v.Error = ""
	v.Comment, v.CommentVisible = commentPrice(p.Locale, p.Currency, proposal.AskPrice, proposal.Payout)

	// movement is measured against the quote stored on the purchase affordance
	v.Stake.Movement = priceMovement(v.Purchase["display_value"], proposal.DisplayValue)
	v.Payout.Movement = priceMovement(v.Purchase["payout"], formatNumber(proposal.Payout))

	if v.Purchase == nil {
		v.Purchase = make(map[string]string)
	}
	v.Purchase["purchase-id"] = proposal.ID
	v.Purchase["ask-price"] = formatNumber(proposal.AskPrice)
	v.Purchase["display_value"] = proposal.DisplayValue
	v.Purchase["payout"] = formatNumber(proposal.Payout)
	v.Purchase["symbol"] = proposal.ID
	for _, key := range sortedKeys(resp.EchoReq) {
		if key == "" || key == "proposal" {
			continue
		}
		v.Purchase[key] = attrValue(resp.EchoReq[key])
	}
	return v
}

// applyAmounts renders the stake and payout rows and the description
// tooltip. A nil proposal leaves the slot untouched.
func applyAmounts(v *models.MSlotView, data *models.MProposal, p RenderParams) {
	if data == nil {
		return
	}

	if data.DisplayValue != "" {
		v.Stake.Visible = true
		v.Stake.Label = localize(p.Locale, "Stake") + ": "
		v.Stake.Amount = formatMoney(p.Locale, p.Currency, cast.ToFloat64(data.DisplayValue))
	} else {
		v.Stake.Visible = false
	}

	if data.Payout != 0 {
		v.Payout.Visible = true
		v.Payout.Label = localize(p.Locale, "Payout") + ": "
		v.Payout.Amount = formatMoney(p.Locale, p.Currency, data.Payout)
	} else {
		v.Payout.Visible = false
	}

	if data.Longcode != "" && p.ViewportWidth > p.TooltipMinWidth {
		v.Tooltip = data.Longcode
	} else {
		v.Tooltip = ""
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// attrValue flattens an echoed request value into an attribute string.
// Objects are kept as JSON.
func attrValue(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return formatAny(v)
}

func encodeParams(params map[string]interface{}) string {
	if len(params) == 0 {
		return "{}"
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "{}"
	}
	return string(data)
}
