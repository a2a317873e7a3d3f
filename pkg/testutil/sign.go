package testutil

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ticketx-lab/backend/pkg/ethutil"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

// SignPurchase produces an issuer authorization over (quantity, buyer,
// metadata) under the typed-data domain of the context configs.
func SignPurchase(
	ctx context.Context, buyer string, quantity int64, metadata []string,
) (uint8, common.Hash, common.Hash) {
	cfg := xcontext.Configs(ctx).Authorization
	domain := ethutil.SignDomain{
		Name:              cfg.DomainName,
		Version:           cfg.DomainVersion,
		ChainID:           cfg.ChainID,
		VerifyingContract: cfg.VerifyingContract,
	}

	digest, err := ethutil.HashPurchasePayload(domain, quantity, buyer, metadata)
	if err != nil {
		panic(err)
	}

	v, r, s, err := ethutil.SignDigest(digest, IssuerPrivateKey)
	if err != nil {
		panic(err)
	}

	return v, r, s
}
