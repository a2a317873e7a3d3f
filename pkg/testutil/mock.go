package testutil

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}

// MockPriceFeed serves fixed rates keyed by feed address.
type MockPriceFeed struct {
	Rates map[string]*big.Int
}

func (m *MockPriceFeed) LatestPrice(ctx context.Context, feedAddress string) (*big.Int, error) {
	rate, ok := m.Rates[feedAddress]
	if !ok {
		return nil, fmt.Errorf("no rate for feed %s", feedAddress)
	}

	return new(big.Int).Set(rate), nil
}

// MockRandomnessProvider hands out a fixed request id and never delivers;
// tests invoke the fulfill path directly with a value of their choice.
type MockRandomnessProvider struct {
	RequestID int64
}

func (m *MockRandomnessProvider) RequestRandomness(ctx context.Context) (int64, error) {
	return m.RequestID, nil
}
