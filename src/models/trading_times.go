package models

// MTradingTimes is the payload of a trading_times response.
type MTradingTimes struct {
	Markets []MMarket `json:"markets"`
}

type MMarket struct {
	Name       string       `json:"name"`
	Submarkets []MSubmarket `json:"submarkets"`
}

type MSubmarket struct {
	Name    string         `json:"name"`
	Symbols []MSymbolTimes `json:"symbols"`
}

type MSymbolTimes struct {
	Name   string        `json:"name"`
	Symbol string        `json:"symbol"`
	Times  MSessionTimes `json:"times"`
}

// MSessionTimes lists session boundaries as HH:MM:SS, "--" when closed.
type MSessionTimes struct {
	Open       []string `json:"open"`
	Close      []string `json:"close"`
	Settlement string   `json:"settlement"`
}
