package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ticketx-lab/backend/internal/common"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/model"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/pubsub"
	"github.com/ticketx-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CurrencyDomain interface {
	Approve(ctx context.Context, req *model.ApproveCurrencyRequest) (*model.ApproveCurrencyResponse, error)
	Revoke(ctx context.Context, req *model.RevokeCurrencyRequest) (*model.RevokeCurrencyResponse, error)
	GetList(ctx context.Context, req *model.GetCurrenciesRequest) (*model.GetCurrenciesResponse, error)
	IsApproved(ctx context.Context, req *model.IsApprovedCurrencyRequest) (*model.IsApprovedCurrencyResponse, error)
}

type currencyDomain struct {
	currencyRepo   repository.CurrencyRepository
	roleVerifier   *common.GlobalRoleVerifier
	eventPublisher pubsub.Publisher
}

func NewCurrencyDomain(
	currencyRepo repository.CurrencyRepository,
	roleVerifier *common.GlobalRoleVerifier,
	eventPublisher pubsub.Publisher,
) *currencyDomain {
	return &currencyDomain{
		currencyRepo:   currencyRepo,
		roleVerifier:   roleVerifier,
		eventPublisher: eventPublisher,
	}
}

func (d *currencyDomain) Approve(
	ctx context.Context, req *model.ApproveCurrencyRequest,
) (*model.ApproveCurrencyResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when approving currency: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	address := strings.ToLower(req.Address)
	if address == "" || address == entity.NativeCurrencyAddress {
		return nil, errorx.New(errorx.BadRequest, "Unsupported currency")
	}

	// Approving an already-approved address just returns the existing record.
	existing, err := d.currencyRepo.GetByAddress(ctx, address)
	if err == nil {
		return &model.ApproveCurrencyResponse{Currency: convertCurrency(existing)}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get currency by address: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	id, err := d.currencyRepo.NextID(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot assign currency id: %v", err)
		return nil, errorx.Unknown
	}

	currency := &entity.Currency{
		ID:        id,
		Address:   address,
		PriceFeed: req.PriceFeed,
		Symbol:    req.Symbol,
		Decimals:  req.Decimals,
	}

	if err := d.currencyRepo.Create(ctx, currency); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create currency: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	msg, err := json.Marshal(model.CurrencyApprovedEvent{
		ID:      currency.ID,
		Address: currency.Address,
		Symbol:  currency.Symbol,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal currency approved event: %v", err)
	} else if err := d.eventPublisher.Publish(ctx, EventTopic, &pubsub.Pack{
		Key: []byte("currency_approved"),
		Msg: msg,
	}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish currency approved event: %v", err)
	}

	return &model.ApproveCurrencyResponse{Currency: convertCurrency(currency)}, nil
}

func (d *currencyDomain) Revoke(
	ctx context.Context, req *model.RevokeCurrencyRequest,
) (*model.RevokeCurrencyResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when revoking currency: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	currency, err := d.currencyRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Currency data mismatched")
		}

		xcontext.Logger(ctx).Errorf("Cannot get currency: %v", err)
		return nil, errorx.Unknown
	}

	// All three identifying fields must match what was registered; this
	// guards against revoking the wrong row with a stale id.
	if currency.Address != strings.ToLower(req.Address) || currency.PriceFeed != req.PriceFeed {
		return nil, errorx.New(errorx.BadRequest, "Currency data mismatched")
	}

	if err := d.currencyRepo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Currency data mismatched")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete currency: %v", err)
		return nil, errorx.Unknown
	}

	msg, err := json.Marshal(model.CurrencyRevokedEvent{
		ID:      currency.ID,
		Address: currency.Address,
		Symbol:  currency.Symbol,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal currency revoked event: %v", err)
	} else if err := d.eventPublisher.Publish(ctx, EventTopic, &pubsub.Pack{
		Key: []byte("currency_revoked"),
		Msg: msg,
	}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish currency revoked event: %v", err)
	}

	return &model.RevokeCurrencyResponse{}, nil
}

func (d *currencyDomain) IsApproved(
	ctx context.Context, req *model.IsApprovedCurrencyRequest,
) (*model.IsApprovedCurrencyResponse, error) {
	address := strings.ToLower(req.Address)
	if address == entity.NativeCurrencyAddress {
		return &model.IsApprovedCurrencyResponse{Approved: true}, nil
	}

	if _, err := d.currencyRepo.GetByAddress(ctx, address); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.IsApprovedCurrencyResponse{Approved: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get currency by address: %v", err)
		return nil, errorx.Unknown
	}

	return &model.IsApprovedCurrencyResponse{Approved: true}, nil
}

func (d *currencyDomain) GetList(
	ctx context.Context, req *model.GetCurrenciesRequest,
) (*model.GetCurrenciesResponse, error) {
	currencies, err := d.currencyRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get currency list: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCurrenciesResponse{Currencies: []model.Currency{}}
	for i := range currencies {
		resp.Currencies = append(resp.Currencies, convertCurrency(&currencies[i]))
	}

	return resp, nil
}
