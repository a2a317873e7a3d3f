package entity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BigInt_ScanValue(t *testing.T) {
	var b BigInt
	require.NoError(t, b.Scan("20000000000000000"))
	require.Equal(t, "20000000000000000", b.String())

	value, err := b.Value()
	require.NoError(t, err)
	require.Equal(t, "20000000000000000", value)

	// Empty and nil columns scan as zero.
	require.NoError(t, b.Scan(nil))
	require.Equal(t, "0", b.String())
	require.NoError(t, b.Scan(""))
	require.Equal(t, "0", b.String())

	require.Error(t, b.Scan("not-a-number"))
	require.Error(t, b.Scan(3.14))
}

func Test_BigInt_BigReturnsCopy(t *testing.T) {
	b := NewBigInt(7)
	c := b.Big()
	c.Add(c, big.NewInt(1))

	require.Equal(t, "7", b.String())
	require.Equal(t, "8", c.String())
}
