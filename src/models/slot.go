package models

// Movement of a displayed amount relative to the previous quote.
type Movement string

const (
	MovementNone Movement = ""
	MovementUp   Movement = "price_moved_up"
	MovementDown Movement = "price_moved_down"
)

// MAmountView is one labelled amount row (stake or payout).
type MAmountView struct {
	Visible  bool     `json:"visible"`
	Label    string   `json:"label"`
	Amount   string   `json:"amount"`
	Movement Movement `json:"movement"`
}

// MSlotView is the rendered state of one price container.
type MSlotView struct {
	Position        string            `json:"position"`
	Visible         bool              `json:"visible"`
	Heading         string            `json:"heading"`
	HeadingClass    string            `json:"heading_class"`
	Stake           MAmountView       `json:"stake"`
	Payout          MAmountView       `json:"payout"`
	Tooltip         string            `json:"tooltip,omitempty"`
	PurchaseVisible bool              `json:"purchase_visible"`
	CommentVisible  bool              `json:"comment_visible"`
	Comment         string            `json:"comment,omitempty"`
	ErrorVisible    bool              `json:"error_visible"`
	Error           string            `json:"error,omitempty"`
	Purchase        map[string]string `json:"purchase"`
}

// Clone returns a deep copy.
func (v MSlotView) Clone() MSlotView {
	out := v
	if v.Purchase != nil {
		out.Purchase = make(map[string]string, len(v.Purchase))
		for k, val := range v.Purchase {
			out.Purchase[k] = val
		}
	}
	return out
}

// MBoardState is a snapshot of the whole price panel.
type MBoardState struct {
	Type             string               `json:"type"` // "INITIAL" or "UPDATE"
	PriceOverlay     bool                 `json:"price_overlay"`
	OverlayContainer bool                 `json:"overlay_container"`
	Slots            map[string]MSlotView `json:"slots"`
	Timestamp        int64                `json:"timestamp"`
}

// MSubscribeCommand is sent by websocket clients.
type MSubscribeCommand struct {
	Command       string   `json:"command"`
	Slots         []string `json:"slots"`
	ViewportWidth int      `json:"viewport_width"`
}
