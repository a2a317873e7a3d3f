package common

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/ethutil"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

// PurchaseVerifier checks the issuer-signed authorization carried by every
// purchase. It is purely a tamper check on the (quantity, buyer, metadata)
// triple; it knows nothing about currencies or amounts.
type PurchaseVerifier struct{}

func NewPurchaseVerifier() *PurchaseVerifier {
	return &PurchaseVerifier{}
}

func (verifier *PurchaseVerifier) Verify(
	ctx context.Context, buyer string, quantity int64, metadata []string, v uint8, r, s ethcommon.Hash,
) error {
	cfg := xcontext.Configs(ctx).Authorization
	domain := ethutil.SignDomain{
		Name:              cfg.DomainName,
		Version:           cfg.DomainVersion,
		ChainID:           cfg.ChainID,
		VerifyingContract: cfg.VerifyingContract,
	}

	digest, err := ethutil.HashPurchasePayload(domain, quantity, buyer, metadata)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash purchase payload: %v", err)
		return errorx.Unknown
	}

	signer, err := ethutil.RecoverSigner(digest, v, r, s)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot recover purchase signer: %v", err)
		return errorx.New(errorx.PermissionDenied, "Action is inconsistent")
	}

	if signer != ethcommon.HexToAddress(cfg.IssuerAddress) {
		return errorx.New(errorx.PermissionDenied, "Action is inconsistent")
	}

	return nil
}
