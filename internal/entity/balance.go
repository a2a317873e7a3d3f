package entity

import "time"

// FundBalance is the collected-funds ledger: cumulative amount received per
// currency during the sale, zeroed exactly once by the payout.
type FundBalance struct {
	EventID    string `gorm:"primaryKey"`
	CurrencyID int64  `gorm:"primaryKey;autoIncrement:false"`

	UpdatedAt time.Time

	Amount BigInt `gorm:"type:text"`
}
