package entity

import (
	"database/sql/driver"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"
)

type Base struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// BigInt stores a wei-scale amount as a decimal string column. Amounts must
// be exact; float64 cannot carry 18-decimal token values.
type BigInt struct {
	big.Int
}

func NewBigInt(x int64) BigInt {
	var b BigInt
	b.SetInt64(x)
	return b
}

func NewBigIntFromBig(x *big.Int) BigInt {
	var b BigInt
	if x != nil {
		b.Set(x)
	}
	return b
}

func (b *BigInt) Scan(value any) error {
	var s string
	switch t := value.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case nil:
		s = "0"
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}

	if s == "" {
		s = "0"
	}

	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("cannot scan %q as a big integer", s)
	}

	return nil
}

func (b BigInt) Value() (driver.Value, error) {
	return b.String(), nil
}

// Big returns a copy safe for arithmetic.
func (b BigInt) Big() *big.Int {
	return new(big.Int).Set(&b.Int)
}
