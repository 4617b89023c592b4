package models

import "time"

// MQuoteRecord is one displayed quote as persisted by the quote store.
type MQuoteRecord struct {
	ID           string    `json:"id"`
	FormID       int64     `json:"form_id"`
	Position     string    `json:"position"`
	ContractType string    `json:"contract_type"`
	ProposalID   string    `json:"proposal_id"`
	Symbol       string    `json:"symbol"`
	Currency     string    `json:"currency"`
	AskPrice     float64   `json:"ask_price"`
	DisplayValue string    `json:"display_value"`
	Payout       float64   `json:"payout"`
	Longcode     string    `json:"longcode"`
	Params       string    `json:"params"` // echoed request as JSON
	CreatedAt    time.Time `json:"created_at"`
}
