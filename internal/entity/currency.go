package entity

import "time"

// NativeCurrencyID is reserved and never stored; the native currency needs
// no registration, no price feed, and is priced at the fixed ticket price.
const NativeCurrencyID = 0

// NativeCurrencyAddress is the sentinel identity used for the native
// currency in requests and payout notifications.
const NativeCurrencyAddress = "0x0000000000000000000000000000000000000000"

// Currency is an approved payment token. Row existence means approved; ids
// are assigned in registration order starting right after the native id.
type Currency struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Address   string `gorm:"uniqueIndex"`
	PriceFeed string
	Symbol    string
	Decimals  int
}
