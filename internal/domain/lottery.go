package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/ticketx-lab/backend/internal/client"
	"github.com/ticketx-lab/backend/internal/common"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/model"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/pubsub"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LotteryDomain interface {
	CreateEvent(ctx context.Context, req *model.CreateLotteryEventRequest) (*model.CreateLotteryEventResponse, error)
	GetEvent(ctx context.Context, req *model.GetLotteryEventRequest) (*model.GetLotteryEventResponse, error)
	BuyTickets(ctx context.Context, req *model.BuyTicketsRequest) (*model.BuyTicketsResponse, error)
	GetUnitPrice(ctx context.Context, req *model.GetUnitPriceRequest) (*model.GetUnitPriceResponse, error)
	GetTotalPrice(ctx context.Context, req *model.GetTotalPriceRequest) (*model.GetTotalPriceResponse, error)
	GetMyTickets(ctx context.Context, req *model.GetMyTicketsRequest) (*model.GetMyTicketsResponse, error)
}

type lotteryDomain struct {
	lotteryRepo       repository.LotteryRepository
	ticketRepo        repository.TicketRepository
	balanceRepo       repository.BalanceRepository
	currencyRepo      repository.CurrencyRepository
	userRepo          repository.UserRepository
	roleVerifier      *common.GlobalRoleVerifier
	priceOracle       *common.PriceOracle
	purchaseVerifier  *common.PurchaseVerifier
	tokenLedgerCaller client.TokenLedgerCaller
	eventPublisher    pubsub.Publisher
}

func NewLotteryDomain(
	lotteryRepo repository.LotteryRepository,
	ticketRepo repository.TicketRepository,
	balanceRepo repository.BalanceRepository,
	currencyRepo repository.CurrencyRepository,
	userRepo repository.UserRepository,
	roleVerifier *common.GlobalRoleVerifier,
	priceOracle *common.PriceOracle,
	purchaseVerifier *common.PurchaseVerifier,
	tokenLedgerCaller client.TokenLedgerCaller,
	eventPublisher pubsub.Publisher,
) *lotteryDomain {
	return &lotteryDomain{
		lotteryRepo:       lotteryRepo,
		ticketRepo:        ticketRepo,
		balanceRepo:       balanceRepo,
		currencyRepo:      currencyRepo,
		userRepo:          userRepo,
		roleVerifier:      roleVerifier,
		priceOracle:       priceOracle,
		purchaseVerifier:  purchaseVerifier,
		tokenLedgerCaller: tokenLedgerCaller,
		eventPublisher:    eventPublisher,
	}
}

func (d *lotteryDomain) CreateEvent(
	ctx context.Context, req *model.CreateLotteryEventRequest,
) (*model.CreateLotteryEventResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when creating lottery event: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	last, err := d.lotteryRepo.GetLastEvent(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get last lottery event: %v", err)
		return nil, errorx.Unknown
	}

	if last != nil && last.PayoutStatus != entity.PayoutCompleted {
		return nil, errorx.New(errorx.Unavailable, "Still have an incompleted lottery event")
	}

	cfg := xcontext.Configs(ctx).Sale
	ticketPrice, ok := new(big.Int).SetString(cfg.TicketPrice, 10)
	if !ok {
		xcontext.Logger(ctx).Errorf("Invalid configured ticket price %q", cfg.TicketPrice)
		return nil, errorx.Unknown
	}

	duration := cfg.Duration.Duration
	if req.Duration > 0 {
		duration = time.Duration(req.Duration) * time.Second
	}

	maxSupply := cfg.MaxSupply
	if req.MaxSupply > 0 {
		maxSupply = req.MaxSupply
	}

	now := time.Now()
	event := &entity.LotteryEvent{
		Base:         entity.Base{ID: uuid.NewString()},
		StartTime:    now,
		EndTime:      now.Add(duration),
		MaxSupply:    maxSupply,
		SoldTickets:  0,
		TicketPrice:  entity.NewBigIntFromBig(ticketPrice),
		FeePercent:   cfg.FeePercent,
		DrawStatus:   entity.DrawPending,
		PayoutStatus: entity.PayoutPending,
	}

	if err := d.lotteryRepo.CreateEvent(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create lottery event: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateLotteryEventResponse{Event: convertLotteryEvent(event)}, nil
}

func (d *lotteryDomain) GetEvent(
	ctx context.Context, req *model.GetLotteryEventRequest,
) (*model.GetLotteryEventResponse, error) {
	event, err := d.currentEvent(ctx)
	if err != nil {
		return nil, err
	}

	return &model.GetLotteryEventResponse{Event: convertLotteryEvent(event)}, nil
}

func (d *lotteryDomain) BuyTickets(
	ctx context.Context, req *model.BuyTicketsRequest,
) (*model.BuyTicketsResponse, error) {
	if req.Quantity <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Quantity must be a positive number")
	}

	// The metadata list is part of the signed triple, so a length mismatch
	// is the same tampering case the signature check rejects.
	if int64(len(req.Metadata)) != req.Quantity {
		return nil, errorx.New(errorx.PermissionDenied, "Action is inconsistent")
	}

	event, err := d.currentEvent(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.Before(event.StartTime) || !now.Before(event.EndTime) {
		return nil, errorx.New(errorx.Unavailable, "Lottery over")
	}

	if event.SoldTickets+req.Quantity > event.MaxSupply {
		return nil, errorx.New(errorx.Unavailable, "Tickets sold out")
	}

	buyer, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get buyer: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Permission denied")
	}

	err = d.purchaseVerifier.Verify(
		ctx, buyer.WalletAddress, req.Quantity, req.Metadata,
		req.SignatureV, ethcommon.HexToHash(req.SignatureR), ethcommon.HexToHash(req.SignatureS),
	)
	if err != nil {
		return nil, err
	}

	totalPrice, err := d.priceOracle.TotalPrice(ctx, event, req.CurrencyID, req.Quantity)
	if err != nil {
		return nil, err
	}

	payment := big.NewInt(0)
	if req.PaymentValue != "" {
		if _, ok := payment.SetString(req.PaymentValue, 10); !ok {
			return nil, errorx.New(errorx.BadRequest, "Price entered incorrectly")
		}
	}

	var tokenAddress string
	if req.CurrencyID == entity.NativeCurrencyID {
		if payment.Cmp(totalPrice) != 0 {
			return nil, errorx.New(errorx.BadRequest, "Price entered incorrectly")
		}
	} else {
		if payment.Sign() != 0 {
			return nil, errorx.New(errorx.BadRequest, "Unnecessary transfer")
		}

		currency, err := d.currencyRepo.GetByID(ctx, req.CurrencyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.BadRequest, "Unsupported currency")
			}

			xcontext.Logger(ctx).Errorf("Cannot get currency: %v", err)
			return nil, errorx.Unknown
		}
		tokenAddress = currency.Address

		allowance, err := d.tokenLedgerCaller.Allowance(ctx, tokenAddress, buyer.WalletAddress)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get allowance: %v", err)
			return nil, errorx.Unknown
		}

		if allowance.Cmp(totalPrice) < 0 {
			return nil, errorx.New(errorx.BadRequest, "Insufficient allowance or balance")
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.lotteryRepo.CheckAndSellTickets(ctx, event.ID, req.Quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Tickets sold out")
		}

		xcontext.Logger(ctx).Errorf("Cannot reserve tickets: %v", err)
		return nil, errorx.Unknown
	}

	// Re-read inside the transaction; the guarded update above makes the new
	// counter the authoritative upper bound of this purchase.
	updated, err := d.lotteryRepo.GetEventByID(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload lottery event: %v", err)
		return nil, errorx.Unknown
	}

	firstNumber := updated.SoldTickets - req.Quantity
	ticketNumbers := make([]int64, 0, req.Quantity)
	for i := int64(0); i < req.Quantity; i++ {
		number := firstNumber + i
		err := d.ticketRepo.Create(ctx, &entity.Ticket{
			EventID: event.ID,
			Number:  number,
			Owner:   buyer.WalletAddress,
			URI:     req.Metadata[i],
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mint ticket %d: %v", number, err)
			return nil, errorx.Unknown
		}

		ticketNumbers = append(ticketNumbers, number)
	}

	if err := d.balanceRepo.Add(ctx, event.ID, req.CurrencyID, totalPrice); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit fund balance: %v", err)
		return nil, errorx.Unknown
	}

	// Pull the token funds last, once the reservation is certain; a failed
	// debit rolls the reservation back.
	if req.CurrencyID != entity.NativeCurrencyID {
		if err := d.tokenLedgerCaller.Debit(ctx, tokenAddress, buyer.WalletAddress, totalPrice); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot debit buyer: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Insufficient allowance or balance")
		}
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	msg, err := json.Marshal(model.PurchaseCompletedEvent{
		EventID:       event.ID,
		Buyer:         buyer.WalletAddress,
		CurrencyID:    req.CurrencyID,
		Quantity:      req.Quantity,
		TotalPrice:    totalPrice.String(),
		TicketNumbers: ticketNumbers,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal purchase completed event: %v", err)
	} else if err := d.eventPublisher.Publish(ctx, EventTopic, &pubsub.Pack{
		Key: []byte("purchase_completed"),
		Msg: msg,
	}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish purchase completed event: %v", err)
	}

	return &model.BuyTicketsResponse{
		TicketNumbers: ticketNumbers,
		TotalPrice:    totalPrice.String(),
	}, nil
}

func (d *lotteryDomain) GetUnitPrice(
	ctx context.Context, req *model.GetUnitPriceRequest,
) (*model.GetUnitPriceResponse, error) {
	event, err := d.currentEvent(ctx)
	if err != nil {
		return nil, err
	}

	price, err := d.priceOracle.UnitPrice(ctx, event, req.CurrencyID)
	if err != nil {
		return nil, err
	}

	return &model.GetUnitPriceResponse{Price: price.String()}, nil
}

func (d *lotteryDomain) GetTotalPrice(
	ctx context.Context, req *model.GetTotalPriceRequest,
) (*model.GetTotalPriceResponse, error) {
	if req.Quantity <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Quantity must be a positive number")
	}

	event, err := d.currentEvent(ctx)
	if err != nil {
		return nil, err
	}

	price, err := d.priceOracle.TotalPrice(ctx, event, req.CurrencyID, req.Quantity)
	if err != nil {
		return nil, err
	}

	return &model.GetTotalPriceResponse{Price: price.String()}, nil
}

func (d *lotteryDomain) GetMyTickets(
	ctx context.Context, req *model.GetMyTicketsRequest,
) (*model.GetMyTicketsResponse, error) {
	event, err := d.currentEvent(ctx)
	if err != nil {
		return nil, err
	}

	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get user: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Permission denied")
	}

	tickets, err := d.ticketRepo.GetByOwner(ctx, event.ID, user.WalletAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMyTicketsResponse{TicketNumbers: []int64{}}
	for _, t := range tickets {
		resp.TicketNumbers = append(resp.TicketNumbers, t.Number)
	}

	return resp, nil
}

func (d *lotteryDomain) currentEvent(ctx context.Context) (*entity.LotteryEvent, error) {
	event, err := d.lotteryRepo.GetLastEvent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found any lottery event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get last lottery event: %v", err)
		return nil, errorx.Unknown
	}

	return event, nil
}
