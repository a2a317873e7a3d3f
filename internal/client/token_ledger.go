package client

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/puzpuzpuz/xsync"
)

// MemoryTokenLedger is an in-process ledger with allowance semantics, used
// in development wiring and tests. Production deployments replace it with
// an adapter to the real settlement service.
type MemoryTokenLedger struct {
	engineAccount string

	// mu serializes the read-modify-write pairs of Debit and Credit; the
	// maps keep the plain read paths lock-free.
	mu         sync.Mutex
	balances   *xsync.MapOf[string, *big.Int]
	allowances *xsync.MapOf[string, *big.Int]
}

func NewMemoryTokenLedger(engineAccount string) *MemoryTokenLedger {
	return &MemoryTokenLedger{
		engineAccount: engineAccount,
		balances:      xsync.NewMapOf[*big.Int](),
		allowances:    xsync.NewMapOf[*big.Int](),
	}
}

func ledgerKey(token, account string) string {
	return fmt.Sprintf("%s/%s", token, account)
}

// SetBalance and SetAllowance seed accounts; they stand in for the deposit
// and approve flows of the external ledger.
func (l *MemoryTokenLedger) SetBalance(token, account string, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances.Store(ledgerKey(token, account), new(big.Int).Set(amount))
}

func (l *MemoryTokenLedger) SetAllowance(token, owner string, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances.Store(ledgerKey(token, owner), new(big.Int).Set(amount))
}

func (l *MemoryTokenLedger) BalanceOf(token, account string) *big.Int {
	if balance, ok := l.balances.Load(ledgerKey(token, account)); ok {
		return new(big.Int).Set(balance)
	}

	return big.NewInt(0)
}

func (l *MemoryTokenLedger) Allowance(ctx context.Context, token, owner string) (*big.Int, error) {
	if allowance, ok := l.allowances.Load(ledgerKey(token, owner)); ok {
		return new(big.Int).Set(allowance), nil
	}

	return big.NewInt(0), nil
}

func (l *MemoryTokenLedger) Debit(ctx context.Context, token, from string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.sub(l.allowances, token, from, amount, "allowance"); err != nil {
		return err
	}

	if err := l.sub(l.balances, token, from, amount, "balance"); err != nil {
		// Give the allowance back; the debit must be all-or-nothing.
		l.add(l.allowances, token, from, amount)
		return err
	}

	l.add(l.balances, token, l.engineAccount, amount)
	return nil
}

func (l *MemoryTokenLedger) Credit(ctx context.Context, token, to string, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.sub(l.balances, token, l.engineAccount, amount, "balance"); err != nil {
		return err
	}

	l.add(l.balances, token, to, amount)
	return nil
}

// sub and add expect the caller to hold mu.
func (l *MemoryTokenLedger) sub(m *xsync.MapOf[string, *big.Int], token, account string, amount *big.Int, kind string) error {
	key := ledgerKey(token, account)
	old, ok := m.Load(key)
	if !ok || old.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient %s of %s for %s", kind, token, account)
	}

	m.Store(key, new(big.Int).Sub(old, amount))
	return nil
}

func (l *MemoryTokenLedger) add(m *xsync.MapOf[string, *big.Int], token, account string, amount *big.Int) {
	key := ledgerKey(token, account)
	old, ok := m.Load(key)
	if !ok {
		old = big.NewInt(0)
	}

	m.Store(key, new(big.Int).Add(old, amount))
}
