package ethutil

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// SignDomain separates purchase authorizations of different deployments.
// Name/Version/ChainID/VerifyingContract mirror the EIP-712 domain fields.
type SignDomain struct {
	Name              string
	Version           string
	ChainID           int64
	VerifyingContract string
}

var purchaseTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"SignData": {
		{Name: "amount", Type: "uint256"},
		{Name: "buyer", Type: "address"},
		{Name: "uri", Type: "string[]"},
	},
}

// HashPurchasePayload computes the typed-data digest of the purchase
// authorization triple {quantity, buyer, metadata uris} under the domain.
func HashPurchasePayload(domain SignDomain, quantity int64, buyer string, uri []string) ([]byte, error) {
	uris := make([]any, 0, len(uri))
	for _, u := range uri {
		uris = append(uris, u)
	}

	typedData := apitypes.TypedData{
		Types:       purchaseTypes,
		PrimaryType: "SignData",
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           math.NewHexOrDecimal256(domain.ChainID),
			VerifyingContract: domain.VerifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"amount": math.NewHexOrDecimal256(quantity),
			"buyer":  buyer,
			"uri":    uris,
		},
	}

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("cannot hash typed data: %w", err)
	}

	return digest, nil
}

// RecoverSigner recovers the address which produced the (v, r, s) signature
// over the digest. It accepts both the legacy 27/28 and the raw 0/1 forms
// of the recovery id.
func RecoverSigner(digest []byte, v uint8, r, s common.Hash) (common.Address, error) {
	if v >= 27 {
		v -= 27
	}

	sig := make([]byte, 65)
	copy(sig[:32], r.Bytes())
	copy(sig[32:64], s.Bytes())
	sig[64] = v

	pubkey, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("cannot recover signer: %w", err)
	}

	return ethcrypto.PubkeyToAddress(*pubkey), nil
}

// SignDigest signs the digest and splits the signature into the (v, r, s)
// form carried by purchase requests.
func SignDigest(digest []byte, key *ecdsa.PrivateKey) (uint8, common.Hash, common.Hash, error) {
	sig, err := ethcrypto.Sign(digest, key)
	if err != nil {
		return 0, common.Hash{}, common.Hash{}, err
	}

	var r, s common.Hash
	copy(r[:], sig[:32])
	copy(s[:], sig[32:64])
	return sig[64] + 27, r, s, nil
}
