package model

type RequestDrawRequest struct{}

type RequestDrawResponse struct {
	RequestID int64 `json:"request_id"`
}

type GetWinnerRequest struct{}

type GetWinnerResponse struct {
	DrawStatus    string `json:"draw_status"`
	WinningTicket int64  `json:"winning_ticket"`
	Owner         string `json:"owner,omitempty"`
}

// DrawFulfilledEvent is published when the randomness callback lands.
type DrawFulfilledEvent struct {
	EventID       string `json:"event_id"`
	RequestID     int64  `json:"request_id"`
	RandomValue   string `json:"random_value"`
	WinningTicket int64  `json:"winning_ticket"`
	Owner         string `json:"owner"`
}
