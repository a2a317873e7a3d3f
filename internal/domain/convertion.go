package domain

import (
	"time"

	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/model"
)

// EventTopic carries every engine notification; the pack key names the kind.
const EventTopic = "lottery_events"

func convertLotteryEvent(event *entity.LotteryEvent) model.LotteryEvent {
	return model.LotteryEvent{
		ID:           event.ID,
		StartTime:    event.StartTime.Format(time.RFC3339),
		EndTime:      event.EndTime.Format(time.RFC3339),
		MaxSupply:    event.MaxSupply,
		SoldTickets:  event.SoldTickets,
		TicketPrice:  event.TicketPrice.String(),
		FeePercent:   event.FeePercent,
		DrawStatus:   string(event.DrawStatus),
		PayoutStatus: string(event.PayoutStatus),
	}
}

func convertCurrency(currency *entity.Currency) model.Currency {
	return model.Currency{
		ID:        currency.ID,
		Address:   currency.Address,
		PriceFeed: currency.PriceFeed,
		Symbol:    currency.Symbol,
		Decimals:  currency.Decimals,
	}
}
