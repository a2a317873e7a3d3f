package client

import (
	"context"
	"errors"
	"math/big"

	"github.com/bwmarrin/snowflake"
	"github.com/ticketx-lab/backend/pkg/crypto"
)

// FulfillFunc delivers a requested random value back to the engine.
type FulfillFunc func(requestID int64, randomValue *big.Int)

// LocalRandomnessProvider generates entropy in-process and delivers it
// asynchronously, keeping the same two-phase shape as an external VRF-style
// provider. Meant for development and single-node deployments.
type LocalRandomnessProvider struct {
	node    *snowflake.Node
	fulfill FulfillFunc
}

func NewLocalRandomnessProvider(node *snowflake.Node) *LocalRandomnessProvider {
	return &LocalRandomnessProvider{node: node}
}

// OnFulfill registers the delivery callback. The provider is constructed
// before the consumer of its deliveries, so the callback arrives later.
func (p *LocalRandomnessProvider) OnFulfill(fulfill FulfillFunc) {
	p.fulfill = fulfill
}

func (p *LocalRandomnessProvider) RequestRandomness(ctx context.Context) (int64, error) {
	if p.fulfill == nil {
		return 0, errors.New("no fulfill callback is registered")
	}

	requestID := p.node.Generate().Int64()

	// Delivery is out-of-band; the requester never blocks on it.
	go func() {
		p.fulfill(requestID, crypto.RandBig(256))
	}()

	return requestID, nil
}
