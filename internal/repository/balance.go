package repository

import (
	"context"
	"errors"
	"math/big"

	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BalanceRepository interface {
	Get(ctx context.Context, eventID string, currencyID int64) (*entity.FundBalance, error)
	GetNonZeroByEventID(ctx context.Context, eventID string) ([]entity.FundBalance, error)

	// Add credits amount to the (event, currency) ledger entry, creating it
	// on first use. Must run inside the purchase transaction.
	Add(ctx context.Context, eventID string, currencyID int64, amount *big.Int) error

	// Zero empties one ledger entry during the payout transaction.
	Zero(ctx context.Context, eventID string, currencyID int64) error
}

type balanceRepository struct{}

func NewBalanceRepository() *balanceRepository {
	return &balanceRepository{}
}

func (r *balanceRepository) Get(ctx context.Context, eventID string, currencyID int64) (*entity.FundBalance, error) {
	var result entity.FundBalance
	err := xcontext.DB(ctx).Take(&result, "event_id=? AND currency_id=?", eventID, currencyID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *balanceRepository) GetNonZeroByEventID(ctx context.Context, eventID string) ([]entity.FundBalance, error) {
	var result []entity.FundBalance
	err := xcontext.DB(ctx).Order("currency_id ASC").
		Find(&result, "event_id=? AND amount <> ?", eventID, "0").Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *balanceRepository) Add(ctx context.Context, eventID string, currencyID int64, amount *big.Int) error {
	current, err := r.Get(ctx, eventID, currencyID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return xcontext.DB(ctx).Create(&entity.FundBalance{
			EventID:    eventID,
			CurrencyID: currencyID,
			Amount:     entity.NewBigIntFromBig(amount),
		}).Error
	}

	sum := new(big.Int).Add(current.Amount.Big(), amount)
	return xcontext.DB(ctx).Model(&entity.FundBalance{}).
		Where("event_id=? AND currency_id=?", eventID, currencyID).
		Update("amount", entity.NewBigIntFromBig(sum)).Error
}

func (r *balanceRepository) Zero(ctx context.Context, eventID string, currencyID int64) error {
	tx := xcontext.DB(ctx).Model(&entity.FundBalance{}).
		Where("event_id=? AND currency_id=?", eventID, currencyID).
		Update("amount", entity.NewBigInt(0))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
