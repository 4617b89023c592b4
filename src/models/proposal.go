package models

// -----------------------------------------------------------------------------
// Outbound messages
// -----------------------------------------------------------------------------

// MPassthrough is echoed back untouched by the server.
type MPassthrough struct {
	FormID int64 `json:"form_id"`
}

// MProposalRequest asks the server for a streamed price quote.
type MProposalRequest struct {
	Proposal     int          `json:"proposal"`
	Subscribe    int          `json:"subscribe"`
	Amount       *float64     `json:"amount,omitempty"`
	Basis        string       `json:"basis,omitempty"`
	ContractType string       `json:"contract_type,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	Symbol       string       `json:"symbol,omitempty"`
	DateStart    int64        `json:"date_start,omitempty"`
	Duration     *int         `json:"duration,omitempty"`
	DurationUnit string       `json:"duration_unit,omitempty"`
	DateExpiry   int64        `json:"date_expiry,omitempty"`
	Barrier      string       `json:"barrier,omitempty"`
	Barrier2     string       `json:"barrier2,omitempty"`
	Passthrough  MPassthrough `json:"passthrough"`
	ReqID        int64        `json:"req_id,omitempty"`
}

func (r *MProposalRequest) SetReqID(id int64) { r.ReqID = id }
func (r *MProposalRequest) MsgType() string { return "proposal" }

// MForgetAllRequest cancels every stream of the given type.
type MForgetAllRequest struct {
	ForgetAll string `json:"forget_all"`
	ReqID     int64  `json:"req_id,omitempty"`
}

func (r *MForgetAllRequest) SetReqID(id int64) { r.ReqID = id }
func (r *MForgetAllRequest) MsgType() string { return "forget_all" }

// MTradingTimesRequest fetches the trading calendar for one date (YYYY-MM-DD).
type MTradingTimesRequest struct {
	TradingTimes string `json:"trading_times"`
	ReqID        int64  `json:"req_id,omitempty"`
}

func (r *MTradingTimesRequest) SetReqID(id int64) { r.ReqID = id }
func (r *MTradingTimesRequest) MsgType() string { return "trading_times" }

// MPingRequest keeps the socket alive.
type MPingRequest struct {
	Ping  int   `json:"ping"`
	ReqID int64 `json:"req_id,omitempty"`
}

func (r *MPingRequest) SetReqID(id int64) { r.ReqID = id }
func (r *MPingRequest) MsgType() string { return "ping" }
