package repository

import (
	"context"

	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CurrencyRepository interface {
	Create(ctx context.Context, currency *entity.Currency) error
	GetByID(ctx context.Context, id int64) (*entity.Currency, error)
	GetByAddress(ctx context.Context, address string) (*entity.Currency, error)
	GetList(ctx context.Context) ([]entity.Currency, error)
	NextID(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type currencyRepository struct{}

func NewCurrencyRepository() *currencyRepository {
	return &currencyRepository{}
}

func (r *currencyRepository) Create(ctx context.Context, currency *entity.Currency) error {
	return xcontext.DB(ctx).Create(currency).Error
}

func (r *currencyRepository) GetByID(ctx context.Context, id int64) (*entity.Currency, error) {
	var result entity.Currency
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *currencyRepository) GetByAddress(ctx context.Context, address string) (*entity.Currency, error) {
	var result entity.Currency
	if err := xcontext.DB(ctx).Take(&result, "address=?", address).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *currencyRepository) GetList(ctx context.Context) ([]entity.Currency, error) {
	var result []entity.Currency
	if err := xcontext.DB(ctx).Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// NextID assigns registration-order ids; the native currency owns id 0, so
// tokens start at 1.
func (r *currencyRepository) NextID(ctx context.Context) (int64, error) {
	var maxID int64
	err := xcontext.DB(ctx).Model(&entity.Currency{}).
		Select("COALESCE(MAX(id), ?)", entity.NativeCurrencyID).
		Take(&maxID).Error
	if err != nil {
		return 0, err
	}

	return maxID + 1, nil
}

func (r *currencyRepository) Delete(ctx context.Context, id int64) error {
	tx := xcontext.DB(ctx).Delete(&entity.Currency{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
