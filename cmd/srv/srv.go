package main

import (
	"context"
	"math/big"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/ticketx-lab/backend/config"
	"github.com/ticketx-lab/backend/internal/client"
	"github.com/ticketx-lab/backend/internal/common"
	"github.com/ticketx-lab/backend/internal/domain"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/blockchain/eth"
	"github.com/ticketx-lab/backend/pkg/kafka"
	"github.com/ticketx-lab/backend/pkg/logger"
	"github.com/ticketx-lab/backend/pkg/pubsub"
	"github.com/ticketx-lab/backend/pkg/token"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App

	// ctx is the base context every request derives from; it carries the
	// configs, logger, db handle, snowflake node and token engine.
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	publisher pubsub.Publisher

	priceFeed   client.PriceFeedCaller
	tokenLedger client.TokenLedgerCaller
	randomness  *client.LocalRandomnessProvider

	userRepo      repository.UserRepository
	currencyRepo  repository.CurrencyRepository
	lotteryRepo   repository.LotteryRepository
	ticketRepo    repository.TicketRepository
	balanceRepo   repository.BalanceRepository
	payoutLegRepo repository.PayoutLegRepository

	currencyDomain domain.CurrencyDomain
	lotteryDomain  domain.LotteryDomain
	drawDomain     domain.DrawDomain
	payoutDomain   domain.PayoutDomain

	mux    *http.ServeMux
	server *http.Server
}

func (s *srv) loadConfig(cliCtx *cli.Context) {
	var err error
	s.configs, err = config.Load(cliCtx.String("config"))
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher("ticketx-api", []string{s.configs.Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.currencyRepo = repository.NewCurrencyRepository()
	s.lotteryRepo = repository.NewLotteryRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.balanceRepo = repository.NewBalanceRepository()
	s.payoutLegRepo = repository.NewPayoutLegRepository()
}

func (s *srv) loadBaseContext() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithTokenEngine(ctx, token.NewEngine(s.configs.Auth.TokenSecret))
	s.ctx = ctx

	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadClients() {
	feed, err := eth.NewPriceFeedCaller(s.configs.Eth.RPC)
	if err != nil {
		panic(err)
	}

	s.priceFeed = feed
	s.tokenLedger = client.NewMemoryTokenLedger("engine")
	s.randomness = client.NewLocalRandomnessProvider(xcontext.SnowFlake(s.ctx))
}

func (s *srv) loadDomains() {
	roleVerifier := common.NewGlobalRoleVerifier(s.userRepo)
	priceOracle := common.NewPriceOracle(s.currencyRepo, s.priceFeed)
	purchaseVerifier := common.NewPurchaseVerifier()

	s.currencyDomain = domain.NewCurrencyDomain(s.currencyRepo, roleVerifier, s.publisher)
	s.lotteryDomain = domain.NewLotteryDomain(
		s.lotteryRepo, s.ticketRepo, s.balanceRepo, s.currencyRepo, s.userRepo,
		roleVerifier, priceOracle, purchaseVerifier, s.tokenLedger, s.publisher,
	)
	s.drawDomain = domain.NewDrawDomain(
		s.lotteryRepo, s.ticketRepo, roleVerifier, s.randomness, s.publisher)
	s.payoutDomain = domain.NewPayoutDomain(
		s.lotteryRepo, s.ticketRepo, s.balanceRepo, s.currencyRepo, s.payoutLegRepo,
		roleVerifier, s.tokenLedger, s.publisher,
	)

	s.randomness.OnFulfill(func(requestID int64, randomValue *big.Int) {
		s.drawDomain.Fulfill(s.ctx, requestID, randomValue)
	})
}

func (s *srv) startServer() error {
	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Host + ":" + s.configs.ApiServer.Port,
		Handler: s.mux,
	}

	s.logger.Infof("Starting server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}
