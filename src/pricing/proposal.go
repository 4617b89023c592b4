package pricing

import (
	"strconv"
	"strings"
	"time"

	"price-quoter/src/models"

	"github.com/spf13/cast"
)

const (
	expiryDuration = "duration"
	expiryEndTime  = "endtime"
	closedMarker   = "--"
	endOfDay       = "23:59:59"
	startNow       = "now"
)

// -----------------------------------------------------------------------------

// BuildProposal reads the form into a proposal request for contractType,
// tagged with the current form generation. Hidden fields are ignored.
func (c *Controller) BuildProposal(contractType string) *models.MProposalRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildLocked(contractType)
}

func (c *Controller) buildLocked(contractType string) *models.MProposalRequest {
	req := &models.MProposalRequest{
		Proposal:     1,
		Subscribe:    1,
		ContractType: contractType,
	}

	if v, ok := c.visibleValue("amount"); ok {
		if amount, err := cast.ToFloat64E(v); err == nil {
			req.Amount = &amount
		}
	}
	if v, ok := c.visibleValue("amount_type"); ok {
		req.Basis = v
	}
	req.Currency = c.currency()
	if f, ok := c.deps.Form.Field("underlying"); ok {
		req.Symbol = f.Value
	}

	if f, ok := c.deps.Form.Field("date_start"); ok && f.Visible && f.Value != startNow {
		if start, ok := c.startEpoch(f.Value); ok {
			req.DateStart = start
		}
	}

	if f, ok := c.deps.Form.Field("expiry_type"); ok && f.Visible {
		switch f.Value {
		case expiryDuration:
			if d, ok := c.fieldValue("duration_amount"); ok {
				if n, err := cast.ToFloat64E(d); err == nil {
					duration := int(n)
					req.Duration = &duration
				}
			}
			req.DurationUnit, _ = c.fieldValue("duration_units")
		case expiryEndTime:
			if expiry, ok := c.endTimeEpoch(req.Symbol); ok {
				req.DateExpiry = expiry
			}
			req.DurationUnit = "m"
		}
	}

	if v, ok := c.visibleValue("barrier"); ok {
		req.Barrier = v
	}
	if v, ok := c.visibleValue("barrier_high"); ok {
		req.Barrier = v
	}
	if v, ok := c.visibleValue("barrier_low"); ok {
		req.Barrier2 = v
	}
	if f, ok := c.deps.Form.Field("prediction"); ok && f.Visible {
		if digit, err := cast.ToFloat64E(f.Value); err == nil {
			req.Barrier = strconv.Itoa(int(digit))
		}
	}

	req.Passthrough = models.MPassthrough{FormID: c.formID}
	c.deps.View.ResetPriceMovement()
	return req
}

// -----------------------------------------------------------------------------
// Field helpers
// -----------------------------------------------------------------------------

func (c *Controller) fieldValue(id string) (string, bool) {
	f, ok := c.deps.Form.Field(id)
	if !ok {
		return "", false
	}
	return f.Value, true
}

// visibleValue returns the value of a visible, non-empty field.
func (c *Controller) visibleValue(id string) (string, bool) {
	f, ok := c.deps.Form.Field(id)
	if !ok || !f.Visible || f.Value == "" {
		return "", false
	}
	return f.Value, true
}

// currency prefers the field value over its value attribute.
func (c *Controller) currency() string {
	f, ok := c.deps.Form.Field("currency")
	if !ok {
		return ""
	}
	if f.Value != "" {
		return f.Value
	}
	return f.Attr("value")
}

// -----------------------------------------------------------------------------
// Time resolution
// -----------------------------------------------------------------------------

// startEpoch combines the start day (epoch seconds) with time_start (HH:MM) in UTC.
func (c *Controller) startEpoch(day string) (int64, bool) {
	secs, err := cast.ToFloat64E(day)
	if err != nil {
		return 0, false
	}
	clock, _ := c.fieldValue("time_start")
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, errH := cast.ToFloat64E(parts[0])
	minute, errM := cast.ToFloat64E(parts[1])
	if errH != nil || errM != nil {
		return 0, false
	}

	base := time.Unix(int64(secs), 0).UTC()
	start := time.Date(base.Year(), base.Month(), base.Day(), int(hour), int(minute), base.Second(), 0, time.UTC)
	return start.Unix(), true
}

// endTimeEpoch resolves the expiry of an end-time contract: the remembered
// expiry_time, else the session close of symbol on that day, else end of day.
func (c *Controller) endTimeEpoch(symbol string) (int64, bool) {
	f, ok := c.deps.Form.Field("expiry_date")
	if !ok {
		return 0, false
	}
	date := f.Attr("data-value")

	var clock string
	if c.deps.Defaults != nil {
		clock = c.deps.Defaults.Get("expiry_time")
	}
	if clock == "" && c.deps.Times != nil {
		closes := c.deps.Times.Times(date, symbol)
		if len(closes) > 0 && closes[0] != closedMarker {
			if len(closes) > 1 {
				clock = closes[1]
			} else {
				clock = closes[0]
			}
		}
	}
	if clock == "" {
		clock = endOfDay
	}

	return parseUTC(date, clock)
}

// parseUTC accepts HH:MM:SS and HH:MM clocks.
func parseUTC(date, clock string) (int64, bool) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, time.UTC); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}
