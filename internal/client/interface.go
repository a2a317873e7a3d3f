package client

import (
	"context"
	"math/big"
)

// PriceFeedCaller reads the current exchange rate of one approved currency
// from its registered feed.
type PriceFeedCaller interface {
	LatestPrice(ctx context.Context, feedAddress string) (*big.Int, error)
}

// TokenLedgerCaller is the narrow surface of the external fungible-token
// ledgers. Debit pulls funds from a payer into the engine account using the
// payer's allowance; Credit pays funds out of the engine account.
type TokenLedgerCaller interface {
	Allowance(ctx context.Context, token, owner string) (*big.Int, error)
	Debit(ctx context.Context, token, from string, amount *big.Int) error
	Credit(ctx context.Context, token, to string, amount *big.Int) error
}

// RandomnessProvider issues one entropy request and delivers the value
// later through the fulfill callback it was constructed with. The engine
// owns no entropy; it only correlates the delivery by request id.
type RandomnessProvider interface {
	RequestRandomness(ctx context.Context) (int64, error)
}
