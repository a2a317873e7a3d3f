package ethutil

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func Test_PurchaseAuthorization_SignAndRecover(t *testing.T) {
	key, err := GeneratePrivateKey([]byte("secret"), []byte("issuer"))
	require.NoError(t, err)
	issuer := ethcrypto.PubkeyToAddress(key.PublicKey)

	domain := SignDomain{
		Name:              "TicketSale",
		Version:           "1",
		ChainID:           1337,
		VerifyingContract: "0x00000000000000000000000000000000000000ee",
	}

	buyer := "0x00000000000000000000000000000000000000aa"
	digest, err := HashPurchasePayload(domain, 2, buyer, []string{"ipfs://0", "ipfs://1"})
	require.NoError(t, err)

	v, r, s, err := SignDigest(digest, key)
	require.NoError(t, err)

	recovered, err := RecoverSigner(digest, v, r, s)
	require.NoError(t, err)
	require.Equal(t, issuer, recovered)

	// The raw 0/1 recovery id form recovers the same signer.
	recovered, err = RecoverSigner(digest, v-27, r, s)
	require.NoError(t, err)
	require.Equal(t, issuer, recovered)

	// Any change of the signed triple yields a different signer.
	tampered, err := HashPurchasePayload(domain, 3, buyer, []string{"ipfs://0", "ipfs://1"})
	require.NoError(t, err)

	recovered, err = RecoverSigner(tampered, v, r, s)
	if err == nil {
		require.NotEqual(t, issuer, recovered)
	}
}

func Test_HashPurchasePayload_DomainSeparation(t *testing.T) {
	buyer := "0x00000000000000000000000000000000000000aa"
	domain := SignDomain{Name: "TicketSale", Version: "1", ChainID: 1}

	digest1, err := HashPurchasePayload(domain, 1, buyer, nil)
	require.NoError(t, err)

	domain.ChainID = 2
	digest2, err := HashPurchasePayload(domain, 1, buyer, nil)
	require.NoError(t, err)

	require.NotEqual(t, digest1, digest2)
}
