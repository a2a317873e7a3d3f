package model

type LotteryEvent struct {
	ID           string `json:"id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	MaxSupply    int64  `json:"max_supply"`
	SoldTickets  int64  `json:"sold_tickets"`
	TicketPrice  string `json:"ticket_price"`
	FeePercent   int64  `json:"fee_percent"`
	DrawStatus   string `json:"draw_status"`
	PayoutStatus string `json:"payout_status"`
}

type CreateLotteryEventRequest struct {
	MaxSupply int64 `json:"max_supply"`
	Duration  int64 `json:"duration"` // seconds, zero means the configured default
}

type CreateLotteryEventResponse struct {
	Event LotteryEvent `json:"event"`
}

type GetLotteryEventRequest struct{}

type GetLotteryEventResponse struct {
	Event LotteryEvent `json:"event"`
}

type BuyTicketsRequest struct {
	CurrencyID int64    `json:"currency_id"`
	Quantity   int64    `json:"quantity"`
	Metadata   []string `json:"metadata"`

	// Issuer authorization over (quantity, buyer, metadata).
	SignatureV uint8  `json:"signature_v"`
	SignatureR string `json:"signature_r"`
	SignatureS string `json:"signature_s"`

	// Native amount attached to the request, decimal string. Must be zero
	// for token purchases.
	PaymentValue string `json:"payment_value"`
}

type BuyTicketsResponse struct {
	TicketNumbers []int64 `json:"ticket_numbers"`
	TotalPrice    string  `json:"total_price"`
}

type GetUnitPriceRequest struct {
	CurrencyID int64 `json:"currency_id"`
}

type GetUnitPriceResponse struct {
	Price string `json:"price"`
}

type GetTotalPriceRequest struct {
	CurrencyID int64 `json:"currency_id"`
	Quantity   int64 `json:"quantity"`
}

type GetTotalPriceResponse struct {
	Price string `json:"price"`
}

type GetMyTicketsRequest struct{}

type GetMyTicketsResponse struct {
	TicketNumbers []int64 `json:"ticket_numbers"`
}

// PurchaseCompletedEvent is published after every successful purchase.
type PurchaseCompletedEvent struct {
	EventID       string  `json:"event_id"`
	Buyer         string  `json:"buyer"`
	CurrencyID    int64   `json:"currency_id"`
	Quantity      int64   `json:"quantity"`
	TotalPrice    string  `json:"total_price"`
	TicketNumbers []int64 `json:"ticket_numbers"`
}

// CurrencyApprovedEvent and CurrencyRevokedEvent track the registry.
type CurrencyApprovedEvent struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

type CurrencyRevokedEvent struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}
