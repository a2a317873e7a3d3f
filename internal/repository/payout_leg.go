package repository

import (
	"context"

	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PayoutLegRepository interface {
	Create(ctx context.Context, leg *entity.PayoutLeg) error
	GetListByEventID(ctx context.Context, eventID string) ([]entity.PayoutLeg, error)
	GetUnsettledByEventID(ctx context.Context, eventID string) ([]entity.PayoutLeg, error)
	CheckAndSettle(ctx context.Context, id string) error
}

type payoutLegRepository struct{}

func NewPayoutLegRepository() *payoutLegRepository {
	return &payoutLegRepository{}
}

func (r *payoutLegRepository) Create(ctx context.Context, leg *entity.PayoutLeg) error {
	return xcontext.DB(ctx).Create(leg).Error
}

func (r *payoutLegRepository) GetListByEventID(ctx context.Context, eventID string) ([]entity.PayoutLeg, error) {
	var result []entity.PayoutLeg
	err := xcontext.DB(ctx).Order("created_at ASC").Find(&result, "event_id=?", eventID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *payoutLegRepository) GetUnsettledByEventID(ctx context.Context, eventID string) ([]entity.PayoutLeg, error) {
	var result []entity.PayoutLeg
	err := xcontext.DB(ctx).Order("created_at ASC").
		Find(&result, "event_id=? AND settled=?", eventID, false).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CheckAndSettle marks the leg settled only if it was not settled before,
// returning ErrRecordNotFound when another call already claimed it.
func (r *payoutLegRepository) CheckAndSettle(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.PayoutLeg{}).
		Where("id=? AND settled=?", id, false).
		Update("settled", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
