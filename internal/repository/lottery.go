package repository

import (
	"context"

	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LotteryRepository interface {
	CreateEvent(ctx context.Context, event *entity.LotteryEvent) error
	GetEventByID(ctx context.Context, eventID string) (*entity.LotteryEvent, error)
	GetLastEvent(ctx context.Context) (*entity.LotteryEvent, error)

	// CheckAndSellTickets reserves quantity tickets against the remaining
	// stock. It returns gorm.ErrRecordNotFound when the reservation would
	// exceed the max supply; this single conditional update is what keeps
	// concurrent purchases from overselling.
	CheckAndSellTickets(ctx context.Context, eventID string, quantity int64) error

	// CheckAndRequestDraw moves the draw pending->requested exactly once.
	CheckAndRequestDraw(ctx context.Context, eventID string, requestID int64) error

	// CheckAndFulfillDraw moves requested->fulfilled for the matching
	// request id exactly once; a repeated or mismatched callback returns
	// gorm.ErrRecordNotFound.
	CheckAndFulfillDraw(ctx context.Context, eventID string, requestID int64, randomValue entity.BigInt, winningTicket int64) error

	// CheckAndCompletePayout moves the payout pending->completed exactly
	// once; a second call returns gorm.ErrRecordNotFound.
	CheckAndCompletePayout(ctx context.Context, eventID string) error
}

type lotteryRepository struct{}

func NewLotteryRepository() *lotteryRepository {
	return &lotteryRepository{}
}

func (r *lotteryRepository) CreateEvent(ctx context.Context, event *entity.LotteryEvent) error {
	return xcontext.DB(ctx).Create(event).Error
}

func (r *lotteryRepository) GetEventByID(ctx context.Context, eventID string) (*entity.LotteryEvent, error) {
	var result entity.LotteryEvent
	if err := xcontext.DB(ctx).Take(&result, "id=?", eventID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) GetLastEvent(ctx context.Context) (*entity.LotteryEvent, error) {
	var result entity.LotteryEvent
	if err := xcontext.DB(ctx).Order("start_time DESC").Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) CheckAndSellTickets(ctx context.Context, eventID string, quantity int64) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=? AND sold_tickets + ? <= max_supply", eventID, quantity).
		Update("sold_tickets", gorm.Expr("sold_tickets+?", quantity))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) CheckAndRequestDraw(ctx context.Context, eventID string, requestID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=? AND draw_status=?", eventID, entity.DrawPending).
		Updates(map[string]any{
			"draw_status":     entity.DrawRequested,
			"draw_request_id": requestID,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) CheckAndFulfillDraw(
	ctx context.Context, eventID string, requestID int64, randomValue entity.BigInt, winningTicket int64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=? AND draw_status=? AND draw_request_id=?", eventID, entity.DrawRequested, requestID).
		Updates(map[string]any{
			"draw_status":    entity.DrawFulfilled,
			"random_value":   randomValue,
			"winning_ticket": winningTicket,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) CheckAndCompletePayout(ctx context.Context, eventID string) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=? AND payout_status=?", eventID, entity.PayoutPending).
		Update("payout_status", entity.PayoutCompleted)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
