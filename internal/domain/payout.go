package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/ticketx-lab/backend/internal/client"
	"github.com/ticketx-lab/backend/internal/common"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/model"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/pubsub"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutDomain interface {
	Payout(ctx context.Context, req *model.PayoutRequest) (*model.PayoutResponse, error)
}

type payoutDomain struct {
	lotteryRepo       repository.LotteryRepository
	ticketRepo        repository.TicketRepository
	balanceRepo       repository.BalanceRepository
	currencyRepo      repository.CurrencyRepository
	payoutLegRepo     repository.PayoutLegRepository
	roleVerifier      *common.GlobalRoleVerifier
	tokenLedgerCaller client.TokenLedgerCaller
	eventPublisher    pubsub.Publisher
}

func NewPayoutDomain(
	lotteryRepo repository.LotteryRepository,
	ticketRepo repository.TicketRepository,
	balanceRepo repository.BalanceRepository,
	currencyRepo repository.CurrencyRepository,
	payoutLegRepo repository.PayoutLegRepository,
	roleVerifier *common.GlobalRoleVerifier,
	tokenLedgerCaller client.TokenLedgerCaller,
	eventPublisher pubsub.Publisher,
) *payoutDomain {
	return &payoutDomain{
		lotteryRepo:       lotteryRepo,
		ticketRepo:        ticketRepo,
		balanceRepo:       balanceRepo,
		currencyRepo:      currencyRepo,
		payoutLegRepo:     payoutLegRepo,
		roleVerifier:      roleVerifier,
		tokenLedgerCaller: tokenLedgerCaller,
		eventPublisher:    eventPublisher,
	}
}

func (d *payoutDomain) Payout(ctx context.Context, req *model.PayoutRequest) (*model.PayoutResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when paying out: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	event, err := d.lotteryRepo.GetLastEvent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found any lottery event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get last lottery event: %v", err)
		return nil, errorx.Unknown
	}

	if event.DrawStatus != entity.DrawFulfilled {
		return nil, errorx.New(errorx.Unavailable, "Lottery is not over")
	}

	winner, err := d.ticketRepo.GetOwner(ctx, event.ID, event.WinningTicket)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winner: %v", err)
		return nil, errorx.Unknown
	}

	operator := xcontext.Configs(ctx).Sale.OperatorAddress

	// The durable records come first, the external transfers second. A
	// transfer failing partway leaves its leg unsettled, and the next call
	// resumes from the persisted legs instead of disbursing twice.
	var legs []entity.PayoutLeg
	if event.PayoutStatus == entity.PayoutCompleted {
		legs, err = d.payoutLegRepo.GetUnsettledByEventID(ctx, event.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get unsettled payout legs: %v", err)
			return nil, errorx.Unknown
		}

		if len(legs) == 0 {
			return nil, errorx.New(errorx.Unavailable, "Payout was already completed")
		}
	} else {
		legs, err = d.recordLegs(ctx, event, winner, operator)
		if err != nil {
			return nil, err
		}
	}

	resp := &model.PayoutResponse{Legs: []model.PayoutLeg{}}
	for i := range legs {
		settled, err := d.settleLeg(ctx, &legs[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot settle payout leg %s: %v", legs[i].ID, err)
			return nil, errorx.Unknown
		}

		if !settled {
			continue
		}

		leg := model.PayoutLeg{
			CurrencyID: legs[i].CurrencyID,
			Recipient:  legs[i].Recipient,
			Amount:     legs[i].Amount.String(),
			Kind:       string(legs[i].Kind),
		}
		resp.Legs = append(resp.Legs, leg)

		msg, err := json.Marshal(model.PayoutEvent{
			EventID:    event.ID,
			CurrencyID: leg.CurrencyID,
			Recipient:  leg.Recipient,
			Amount:     leg.Amount,
			Kind:       leg.Kind,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal payout event: %v", err)
			continue
		}

		if err := d.eventPublisher.Publish(ctx, EventTopic, &pubsub.Pack{
			Key: []byte("payout"),
			Msg: msg,
		}); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish payout event: %v", err)
		}
	}

	return resp, nil
}

// recordLegs atomically marks the payout completed, zeroes the fund
// balances and persists the unsettled legs.
func (d *payoutDomain) recordLegs(
	ctx context.Context, event *entity.LotteryEvent, winner, operator string,
) ([]entity.PayoutLeg, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.lotteryRepo.CheckAndCompletePayout(ctx, event.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Payout was already completed")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark payout as completed: %v", err)
		return nil, errorx.Unknown
	}

	balances, err := d.balanceRepo.GetNonZeroByEventID(ctx, event.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get fund balances: %v", err)
		return nil, errorx.Unknown
	}

	var legs []entity.PayoutLeg
	for _, balance := range balances {
		tokenAddress := entity.NativeCurrencyAddress
		if balance.CurrencyID != entity.NativeCurrencyID {
			currency, err := d.currencyRepo.GetByID(ctx, balance.CurrencyID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Revoked after funds were collected; the entry stays
					// untouched for manual handling.
					xcontext.Logger(ctx).Warnf(
						"Skip payout of revoked currency %d", balance.CurrencyID)
					continue
				}

				xcontext.Logger(ctx).Errorf("Cannot get currency: %v", err)
				return nil, errorx.Unknown
			}

			tokenAddress = currency.Address
		}

		total := balance.Amount.Big()
		fee := new(big.Int).Mul(total, big.NewInt(event.FeePercent))
		fee.Quo(fee, big.NewInt(100))
		remainder := new(big.Int).Sub(total, fee)

		if err := d.balanceRepo.Zero(ctx, event.ID, balance.CurrencyID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zero fund balance: %v", err)
			return nil, errorx.Unknown
		}

		legs = append(legs,
			entity.PayoutLeg{
				Base:         entity.Base{ID: uuid.NewString()},
				EventID:      event.ID,
				CurrencyID:   balance.CurrencyID,
				TokenAddress: tokenAddress,
				Recipient:    operator,
				Amount:       entity.NewBigIntFromBig(fee),
				Kind:         entity.PayoutFee,
			},
			entity.PayoutLeg{
				Base:         entity.Base{ID: uuid.NewString()},
				EventID:      event.ID,
				CurrencyID:   balance.CurrencyID,
				TokenAddress: tokenAddress,
				Recipient:    winner,
				Amount:       entity.NewBigIntFromBig(remainder),
				Kind:         entity.PayoutPrize,
			},
		)
	}

	for i := range legs {
		if err := d.payoutLegRepo.Create(ctx, &legs[i]); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record payout leg: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return legs, nil
}

// settleLeg claims the leg and moves the funds in one transaction, with the
// external credit last so a failed transfer releases the claim for the next
// attempt. Returns false when another call already settled the leg.
func (d *payoutDomain) settleLeg(ctx context.Context, leg *entity.PayoutLeg) (bool, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.payoutLegRepo.CheckAndSettle(ctx, leg.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	if amount := leg.Amount.Big(); amount.Sign() > 0 {
		if err := d.tokenLedgerCaller.Credit(ctx, leg.TokenAddress, leg.Recipient, amount); err != nil {
			return false, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return true, nil
}
