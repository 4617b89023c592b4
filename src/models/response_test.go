package models

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestProposalAcceptsNumbersAndStrings(t *testing.T) {
	tests := []struct {
		frame   string
		ask     float64
		payout  float64
		display string
	}{
		{`{"ask_price":5.23,"payout":10,"display_value":"5.23"}`, 5.23, 10, "5.23"},
		{`{"ask_price":"5.23","payout":"10","display_value":"5.23"}`, 5.23, 10, "5.23"},
		{`{"display_value":5.5}`, 0, 0, "5.5"},
		{`{"ask_price":"","payout":"n/a"}`, 0, 0, ""},
	}
	for _, tt := range tests {
		var p MProposal
		if err := json.Unmarshal([]byte(tt.frame), &p); err != nil {
			t.Errorf("%s: %v", tt.frame, err)
			continue
		}
		if p.AskPrice != tt.ask || p.Payout != tt.payout || p.DisplayValue != tt.display {
			t.Errorf("%s decoded to %+v", tt.frame, p)
		}
	}
}

func TestErrorFrameWithQuotedDetails(t *testing.T) {
	frame := `{"msg_type":"proposal","echo_req":{"contract_type":"CALL"},
		"error":{"code":"ContractBuyValidationError","message":"Stake too low.",
		"details":{"display_value":"0.10","payout":"0.19"}}}`

	var resp MResponse
	if err := json.Unmarshal([]byte(frame), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Message != "Stake too low." {
		t.Fatalf("error = %+v", resp.Error)
	}
	if d := resp.Error.Details; d == nil || d.Payout != 0.19 || d.DisplayValue != "0.10" {
		t.Errorf("details = %+v", d)
	}
	if resp.EchoContractType() != "CALL" {
		t.Errorf("contract type = %q", resp.EchoContractType())
	}
}
