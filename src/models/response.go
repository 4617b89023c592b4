package models

import (
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// -----------------------------------------------------------------------------
// Inbound messages
// -----------------------------------------------------------------------------

// MResponse is the envelope of every server frame.
type MResponse struct {
	MsgType      string                 `json:"msg_type"`
	ReqID        int64                  `json:"req_id,omitempty"`
	EchoReq      map[string]interface{} `json:"echo_req"`
	Error        *MAPIError             `json:"error,omitempty"`
	Proposal     *MProposal             `json:"proposal,omitempty"`
	Subscription *MSubscription         `json:"subscription,omitempty"`
	TradingTimes *MTradingTimes         `json:"trading_times,omitempty"`
}

type MSubscription struct {
	ID string `json:"id"`
}

// MProposal is a server computed quote. The same shape is used for the
// partial details attached to an error.
type MProposal struct {
	ID           string  `json:"id,omitempty"`
	AskPrice     float64 `json:"ask_price,omitempty"`
	Payout       float64 `json:"payout,omitempty"`
	DisplayValue string  `json:"display_value,omitempty"`
	Longcode     string  `json:"longcode,omitempty"`
	Spot         float64 `json:"spot,omitempty"`
	SpotTime     int64   `json:"spot_time,omitempty"`
	DateStart    int64   `json:"date_start,omitempty"`
}

// proposalWire accepts amounts sent either as JSON numbers or quoted.
type proposalWire struct {
	ID           string      `json:"id"`
	AskPrice     interface{} `json:"ask_price"`
	Payout       interface{} `json:"payout"`
	DisplayValue interface{} `json:"display_value"`
	Longcode     string      `json:"longcode"`
	Spot         interface{} `json:"spot"`
	SpotTime     interface{} `json:"spot_time"`
	DateStart    interface{} `json:"date_start"`
}

// UnmarshalJSON never fails on an amount: unreadable values decode as 0 so
// the rest of the frame, error message included, still gets through.
func (p *MProposal) UnmarshalJSON(data []byte) error {
	var w proposalWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = MProposal{
		ID:           w.ID,
		AskPrice:     cast.ToFloat64(w.AskPrice),
		Payout:       cast.ToFloat64(w.Payout),
		DisplayValue: cast.ToString(w.DisplayValue),
		Longcode:     w.Longcode,
		Spot:         cast.ToFloat64(w.Spot),
		SpotTime:     int64(cast.ToFloat64(w.SpotTime)),
		DateStart:    int64(cast.ToFloat64(w.DateStart)),
	}
	return nil
}

type MAPIError struct {
	Code    string     `json:"code,omitempty"`
	Message string     `json:"message"`
	Details *MProposal `json:"details,omitempty"`
}

// -----------------------------------------------------------------------------

// EchoContractType returns the contract type the request was sent with.
func (r *MResponse) EchoContractType() string {
	if r == nil || r.EchoReq == nil {
		return ""
	}
	return cast.ToString(r.EchoReq["contract_type"])
}

// EchoFormID returns the generation counter round-tripped in the passthrough.
func (r *MResponse) EchoFormID() (int64, bool) {
	if r == nil || r.EchoReq == nil {
		return 0, false
	}
	raw, ok := r.EchoReq["passthrough"]
	if !ok || raw == nil {
		return 0, false
	}
	pt, err := cast.ToStringMapE(raw)
	if err != nil {
		return 0, false
	}
	v, ok := pt["form_id"]
	if !ok {
		return 0, false
	}
	id, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ProposalID returns the server id of the quote, empty on error frames.
func (r *MResponse) ProposalID() string {
	if r == nil || r.Proposal == nil {
		return ""
	}
	return r.Proposal.ID
}
