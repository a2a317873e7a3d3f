package common

import (
	"context"
	"errors"
	"math/big"

	"github.com/ticketx-lab/backend/internal/client"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// PriceOracle converts the fixed reference ticket price into an amount of
// the requested currency. The native currency never consults a feed: its
// price is the reference constant itself. Token prices use the feed's
// current rate and the token's decimal scale with a single floor division,
// so a total is not necessarily quantity times the unit price.
type PriceOracle struct {
	currencyRepo repository.CurrencyRepository
	priceFeed    client.PriceFeedCaller
}

func NewPriceOracle(
	currencyRepo repository.CurrencyRepository,
	priceFeed client.PriceFeedCaller,
) *PriceOracle {
	return &PriceOracle{currencyRepo: currencyRepo, priceFeed: priceFeed}
}

func (o *PriceOracle) UnitPrice(ctx context.Context, event *entity.LotteryEvent, currencyID int64) (*big.Int, error) {
	return o.price(ctx, event, currencyID, 1)
}

func (o *PriceOracle) TotalPrice(
	ctx context.Context, event *entity.LotteryEvent, currencyID, quantity int64,
) (*big.Int, error) {
	return o.price(ctx, event, currencyID, quantity)
}

func (o *PriceOracle) price(
	ctx context.Context, event *entity.LotteryEvent, currencyID, quantity int64,
) (*big.Int, error) {
	reference := event.TicketPrice.Big()

	if currencyID == entity.NativeCurrencyID {
		return reference.Mul(reference, big.NewInt(quantity)), nil
	}

	currency, err := o.currencyRepo.GetByID(ctx, currencyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Unsupported currency")
		}

		xcontext.Logger(ctx).Errorf("Cannot get currency %d: %v", currencyID, err)
		return nil, errorx.Unknown
	}

	rate, err := o.priceFeed.LatestPrice(ctx, currency.PriceFeed)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rate of currency %d: %v", currencyID, err)
		return nil, errorx.Unknown
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(currency.Decimals)), nil)

	total := reference.Mul(reference, big.NewInt(quantity))
	total.Mul(total, scale)
	return total.Quo(total, rate), nil
}
