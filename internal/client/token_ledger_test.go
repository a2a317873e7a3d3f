package client

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_MemoryTokenLedger_FullScenario(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryTokenLedger("engine")
	token := "0x00000000000000000000000000000000000000aa"

	// Unknown accounts hold nothing.
	require.Equal(t, "0", ledger.BalanceOf(token, "alice").String())
	allowance, err := ledger.Allowance(ctx, token, "alice")
	require.NoError(t, err)
	require.Equal(t, "0", allowance.String())

	ledger.SetBalance(token, "alice", big.NewInt(1000))

	// No allowance yet, so the debit is rejected and the balance untouched.
	err = ledger.Debit(ctx, token, "alice", big.NewInt(400))
	require.Error(t, err)
	require.Equal(t, "1000", ledger.BalanceOf(token, "alice").String())

	// An allowance beyond the balance fails on the balance step and the
	// consumed allowance is restored.
	ledger.SetAllowance(token, "alice", big.NewInt(2000))
	err = ledger.Debit(ctx, token, "alice", big.NewInt(1500))
	require.Error(t, err)
	allowance, err = ledger.Allowance(ctx, token, "alice")
	require.NoError(t, err)
	require.Equal(t, "2000", allowance.String())

	// A covered debit moves the funds into the engine account.
	err = ledger.Debit(ctx, token, "alice", big.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, "600", ledger.BalanceOf(token, "alice").String())
	require.Equal(t, "400", ledger.BalanceOf(token, "engine").String())
	allowance, err = ledger.Allowance(ctx, token, "alice")
	require.NoError(t, err)
	require.Equal(t, "1600", allowance.String())

	// The engine cannot credit more than it holds.
	err = ledger.Credit(ctx, token, "bob", big.NewInt(500))
	require.Error(t, err)
	require.Equal(t, "0", ledger.BalanceOf(token, "bob").String())

	err = ledger.Credit(ctx, token, "bob", big.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, "400", ledger.BalanceOf(token, "bob").String())
	require.Equal(t, "0", ledger.BalanceOf(token, "engine").String())
}
