package entity

import (
	"context"

	"github.com/ticketx-lab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Currency{},
		&LotteryEvent{},
		&Ticket{},
		&FundBalance{},
		&PayoutLeg{},
	)
}
