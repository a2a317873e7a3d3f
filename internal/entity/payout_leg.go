package entity

import "github.com/ticketx-lab/backend/pkg/enum"

type PayoutKindType string

var (
	PayoutFee   = enum.New(PayoutKindType("fee"))
	PayoutPrize = enum.New(PayoutKindType("prize"))
)

// PayoutLeg is the audit record of one disbursement: the operator fee or
// the winner remainder of one currency. Settled flips once the funds have
// left the engine; a later payout call settles whatever is still owed.
type PayoutLeg struct {
	Base

	EventID      string `gorm:"index"`
	CurrencyID   int64
	TokenAddress string
	Recipient    string
	Amount       BigInt `gorm:"type:text"`
	Kind         PayoutKindType
	Settled      bool
}
