package entity

import (
	"time"

	"github.com/ticketx-lab/backend/pkg/enum"
)

type DrawStatusType string

var (
	DrawPending   = enum.New(DrawStatusType("pending"))
	DrawRequested = enum.New(DrawStatusType("requested"))
	DrawFulfilled = enum.New(DrawStatusType("fulfilled"))
)

type PayoutStatusType string

var (
	PayoutPending   = enum.New(PayoutStatusType("pending"))
	PayoutCompleted = enum.New(PayoutStatusType("completed"))
)

// LotteryEvent is one sale window plus its draw and payout lifecycle. The
// config fields (times, price, supply, fee) are immutable after creation;
// the counters and statuses only move through the guarded repository
// updates.
type LotteryEvent struct {
	Base

	StartTime time.Time
	EndTime   time.Time

	MaxSupply   int64
	SoldTickets int64

	TicketPrice BigInt `gorm:"type:text"`
	FeePercent  int64

	DrawStatus    DrawStatusType
	DrawRequestID int64
	RandomValue   BigInt `gorm:"type:text"`
	WinningTicket int64

	PayoutStatus PayoutStatusType
}
