package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ticketx-lab/backend/config"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/pkg/logger"
	"github.com/ticketx-lab/backend/pkg/token"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewMockContext builds the full request context over an in-memory sqlite
// database with migrated tables.
func NewMockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.DEBUG))
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithTokenEngine(ctx, token.NewEngine("token-secret"))

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = NewMockContext()
	}

	return xcontext.WithRequestUserID(ctx, userID)
}

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			TokenSecret: "token-secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Hour,
			},
		},
		Sale: config.SaleConfigs{
			TicketPrice:     "20000000000000000", // 0.02 ether
			Duration:        config.Duration{Duration: 7 * 24 * time.Hour},
			MaxSupply:       10,
			FeePercent:      10,
			OperatorAddress: OperatorAddress,
		},
		Authorization: config.AuthorizationConfigs{
			DomainName:        "TicketSale",
			DomainVersion:     "1",
			ChainID:           1337,
			VerifyingContract: VerifyingContract,
			IssuerAddress:     IssuerAddress,
		},
	}
}
