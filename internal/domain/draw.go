package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"time"

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

type DrawDomain interface {
	RequestDraw(ctx context.Context, req *model.RequestDrawRequest) (*model.RequestDrawResponse, error)
	GetWinner(ctx context.Context, req *model.GetWinnerRequest) (*model.GetWinnerResponse, error)

	// Fulfill is the randomness delivery callback, not an http operation.
	Fulfill(ctx context.Context, requestID int64, randomValue *big.Int)
}

type drawDomain struct {
	lotteryRepo        repository.LotteryRepository
	ticketRepo         repository.TicketRepository
	roleVerifier       *common.GlobalRoleVerifier
	randomnessProvider client.RandomnessProvider
	eventPublisher     pubsub.Publisher
}

func NewDrawDomain(
	lotteryRepo repository.LotteryRepository,
	ticketRepo repository.TicketRepository,
	roleVerifier *common.GlobalRoleVerifier,
	randomnessProvider client.RandomnessProvider,
	eventPublisher pubsub.Publisher,
) *drawDomain {
	return &drawDomain{
		lotteryRepo:        lotteryRepo,
		ticketRepo:         ticketRepo,
		roleVerifier:       roleVerifier,
		randomnessProvider: randomnessProvider,
		eventPublisher:     eventPublisher,
	}
}

func (d *drawDomain) RequestDraw(
	ctx context.Context, req *model.RequestDrawRequest,
) (*model.RequestDrawResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when requesting draw: %v", err)
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

	soldOut := event.SoldTickets >= event.MaxSupply
	if time.Now().Before(event.EndTime) && !soldOut {
		return nil, errorx.New(errorx.Unavailable, "Lottery is not over")
	}

	if event.SoldTickets == 0 {
		return nil, errorx.New(errorx.BadRequest, "No tickets were sold")
	}

	requestID, err := d.randomnessProvider.RequestRandomness(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot request randomness: %v", err)
		return nil, errorx.Unknown
	}

	// A lost race here leaves a dangling provider request; its later
	// delivery fails the request-id guard and is dropped.
	if err := d.lotteryRepo.CheckAndRequestDraw(ctx, event.ID, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "The draw was already requested")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark draw as requested: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RequestDrawResponse{RequestID: requestID}, nil
}

func (d *drawDomain) Fulfill(ctx context.Context, requestID int64, randomValue *big.Int) {
	event, err := d.lotteryRepo.GetLastEvent(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Randomness delivered with no lottery event: %v", err)
		return
	}

	// SoldTickets can no longer move once the draw was requested, so the
	// modulus is stable.
	winningTicket := new(big.Int).Mod(randomValue, big.NewInt(event.SoldTickets)).Int64()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.lotteryRepo.CheckAndFulfillDraw(
		ctx, event.ID, requestID, entity.NewBigIntFromBig(randomValue), winningTicket)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Warnf("Unknown or already fulfilled draw request %d", requestID)
		} else {
			xcontext.Logger(ctx).Errorf("Cannot fulfill draw request %d: %v", requestID, err)
		}

		return
	}

	owner, err := d.ticketRepo.GetOwner(ctx, event.ID, winningTicket)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get owner of winning ticket %d: %v", winningTicket, err)
		return
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	msg, err := json.Marshal(model.DrawFulfilledEvent{
		EventID:       event.ID,
		RequestID:     requestID,
		RandomValue:   randomValue.String(),
		WinningTicket: winningTicket,
		Owner:         owner,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal draw fulfilled event: %v", err)
	} else if err := d.eventPublisher.Publish(ctx, EventTopic, &pubsub.Pack{
		Key: []byte("draw_fulfilled"),
		Msg: msg,
	}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish draw fulfilled event: %v", err)
	}
}

func (d *drawDomain) GetWinner(
	ctx context.Context, req *model.GetWinnerRequest,
) (*model.GetWinnerResponse, error) {
	event, err := d.lotteryRepo.GetLastEvent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found any lottery event")
		}

		xcontext.Logger(ctx).Errorf("Cannot get last lottery event: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetWinnerResponse{DrawStatus: string(event.DrawStatus)}
	if event.DrawStatus != entity.DrawFulfilled {
		// The zero ticket here is a placeholder, distinguishable by status.
		return resp, nil
	}

	owner, err := d.ticketRepo.GetOwner(ctx, event.ID, event.WinningTicket)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get owner of winning ticket: %v", err)
		return nil, errorx.Unknown
	}

	resp.WinningTicket = event.WinningTicket
	resp.Owner = owner
	return resp, nil
}
