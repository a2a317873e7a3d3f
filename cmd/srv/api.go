package main

import (
	"net/http"

	"github.com/ticketx-lab/backend/api"
	"github.com/ticketx-lab/backend/internal/model"
)

func (s *srv) loadRouter() {
	s.mux = http.NewServeMux()
	authed := []api.Middleware{api.Authenticate}

	(&api.Endpoint[model.GetLotteryEventRequest, model.GetLotteryEventResponse]{
		Method: http.MethodGet,
		Path:   "/getLotteryEvent",
		Handle: s.lotteryDomain.GetEvent,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.CreateLotteryEventRequest, model.CreateLotteryEventResponse]{
		Method: http.MethodPost,
		Path:   "/createLotteryEvent",
		Before: authed,
		Handle: s.lotteryDomain.CreateEvent,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.BuyTicketsRequest, model.BuyTicketsResponse]{
		Method: http.MethodPost,
		Path:   "/buyTickets",
		Before: authed,
		Handle: s.lotteryDomain.BuyTickets,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.GetUnitPriceRequest, model.GetUnitPriceResponse]{
		Method: http.MethodGet,
		Path:   "/getUnitPrice",
		Handle: s.lotteryDomain.GetUnitPrice,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.GetTotalPriceRequest, model.GetTotalPriceResponse]{
		Method: http.MethodGet,
		Path:   "/getTotalPrice",
		Handle: s.lotteryDomain.GetTotalPrice,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.GetMyTicketsRequest, model.GetMyTicketsResponse]{
		Method: http.MethodGet,
		Path:   "/getMyTickets",
		Before: authed,
		Handle: s.lotteryDomain.GetMyTickets,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.ApproveCurrencyRequest, model.ApproveCurrencyResponse]{
		Method: http.MethodPost,
		Path:   "/approveCurrency",
		Before: authed,
		Handle: s.currencyDomain.Approve,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.RevokeCurrencyRequest, model.RevokeCurrencyResponse]{
		Method: http.MethodPost,
		Path:   "/revokeCurrency",
		Before: authed,
		Handle: s.currencyDomain.Revoke,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.GetCurrenciesRequest, model.GetCurrenciesResponse]{
		Method: http.MethodGet,
		Path:   "/getCurrencies",
		Handle: s.currencyDomain.GetList,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.IsApprovedCurrencyRequest, model.IsApprovedCurrencyResponse]{
		Method: http.MethodGet,
		Path:   "/isApprovedCurrency",
		Handle: s.currencyDomain.IsApproved,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.RequestDrawRequest, model.RequestDrawResponse]{
		Method: http.MethodPost,
		Path:   "/requestDraw",
		Before: authed,
		Handle: s.drawDomain.RequestDraw,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.GetWinnerRequest, model.GetWinnerResponse]{
		Method: http.MethodGet,
		Path:   "/getWinner",
		Handle: s.drawDomain.GetWinner,
	}).Register(s.mux, s.ctx)

	(&api.Endpoint[model.PayoutRequest, model.PayoutResponse]{
		Method: http.MethodPost,
		Path:   "/payout",
		Before: authed,
		Handle: s.payoutDomain.Payout,
	}).Register(s.mux, s.ctx)
}
