package model

type PayoutLeg struct {
	CurrencyID int64  `json:"currency_id"`
	Recipient  string `json:"recipient"`
	Amount     string `json:"amount"`
	Kind       string `json:"kind"`
}

type PayoutRequest struct{}

type PayoutResponse struct {
	Legs []PayoutLeg `json:"legs"`
}

// PayoutEvent is published once per transferred leg.
type PayoutEvent struct {
	EventID    string `json:"event_id"`
	CurrencyID int64  `json:"currency_id"`
	Recipient  string `json:"recipient"`
	Amount     string `json:"amount"`
	Kind       string `json:"kind"`
}
