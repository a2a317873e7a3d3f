package domain

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ticketx-lab/backend/internal/client"
	"github.com/ticketx-lab/backend/internal/common"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/model"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/errorx"
	"github.com/ticketx-lab/backend/pkg/pubsub"
	"github.com/ticketx-lab/backend/pkg/testutil"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

func newTestLotteryDomain(
	ledger client.TokenLedgerCaller, feed client.PriceFeedCaller, publisher pubsub.Publisher,
) *lotteryDomain {
	userRepo := repository.NewUserRepository()
	currencyRepo := repository.NewCurrencyRepository()
	return &lotteryDomain{
		lotteryRepo:       repository.NewLotteryRepository(),
		ticketRepo:        repository.NewTicketRepository(),
		balanceRepo:       repository.NewBalanceRepository(),
		currencyRepo:      currencyRepo,
		userRepo:          userRepo,
		roleVerifier:      common.NewGlobalRoleVerifier(userRepo),
		priceOracle:       common.NewPriceOracle(currencyRepo, feed),
		purchaseVerifier:  common.NewPurchaseVerifier(),
		tokenLedgerCaller: ledger,
		eventPublisher:    publisher,
	}
}

func discardPublisher() *testutil.MockPublisher {
	return &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error { return nil },
	}
}

func buyRequest(
	ctx context.Context, buyer entity.User, currencyID, quantity int64, payment string,
) *model.BuyTicketsRequest {
	metadata := make([]string, quantity)
	for i := range metadata {
		metadata[i] = "ipfs://ticket"
	}

	v, r, s := testutil.SignPurchase(ctx, buyer.WalletAddress, quantity, metadata)
	return &model.BuyTicketsRequest{
		CurrencyID:   currencyID,
		Quantity:     quantity,
		Metadata:     metadata,
		SignatureV:   v,
		SignatureR:   r.Hex(),
		SignatureS:   s.Hex(),
		PaymentValue: payment,
	}
}

func Test_lotteryDomain_BuyTickets_Native(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	var published []*pubsub.Pack
	ledger := client.NewMemoryTokenLedger("engine")
	lotteryDomain := newTestLotteryDomain(ledger, &testutil.MockPriceFeed{}, &testutil.MockPublisher{
		PublishFunc: func(_ context.Context, _ string, pack *pubsub.Pack) error {
			published = append(published, pack)
			return nil
		},
	})

	// Two tickets at the fixed 0.02 ether price cost exactly 0.04 ether.
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, entity.NativeCurrencyID, 2, "40000000000000000"))
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1}, resp.TicketNumbers)
	require.Equal(t, "40000000000000000", resp.TotalPrice)

	event, err := lotteryDomain.lotteryRepo.GetEventByID(ctx, testutil.Event.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), event.SoldTickets)

	balance, err := lotteryDomain.balanceRepo.Get(ctx, testutil.Event.ID, entity.NativeCurrencyID)
	require.NoError(t, err)
	require.Equal(t, "40000000000000000", balance.Amount.String())

	require.Len(t, published, 1)
	require.Equal(t, "purchase_completed", string(published[0].Key))

	// The next purchase continues the sequential numbering.
	ctxUser2 := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	resp, err = lotteryDomain.BuyTickets(
		ctxUser2, buyRequest(ctx, testutil.User2, entity.NativeCurrencyID, 1, "20000000000000000"))
	require.NoError(t, err)
	require.Equal(t, []int64{2}, resp.TicketNumbers)

	myTickets, err := lotteryDomain.GetMyTickets(ctxUser1, &model.GetMyTicketsRequest{})
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1}, myTickets.TicketNumbers)

	// Each buyer's ticket count grew by their quantity and the minted total
	// matches the sold counter.
	count, err := lotteryDomain.ticketRepo.CountByOwner(ctx, testutil.Event.ID, testutil.User1.WalletAddress)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = lotteryDomain.ticketRepo.CountByOwner(ctx, testutil.Event.ID, testutil.User2.WalletAddress)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	minted, err := lotteryDomain.ticketRepo.Count(ctx, testutil.Event.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), minted)
}

func Test_lotteryDomain_BuyTickets_Validation(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	ledger := client.NewMemoryTokenLedger("engine")
	lotteryDomain := newTestLotteryDomain(ledger, &testutil.MockPriceFeed{}, discardPublisher())
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	// Non-positive quantity.
	_, err := lotteryDomain.BuyTickets(ctxUser1, &model.BuyTicketsRequest{Quantity: 0})
	require.Equal(t, "Quantity must be a positive number", err.Error())

	// An authorization signed for 5 tickets cannot buy 10.
	metadata := make([]string, 10)
	v, r, s := testutil.SignPurchase(ctx, testutil.User1.WalletAddress, 5, metadata[:5])
	_, err = lotteryDomain.BuyTickets(ctxUser1, &model.BuyTicketsRequest{
		CurrencyID: entity.NativeCurrencyID,
		Quantity:   10,
		Metadata:   metadata,
		SignatureV: v,
		SignatureR: r.Hex(),
		SignatureS: s.Hex(),
	})
	require.Equal(t, "Action is inconsistent", err.Error())
	require.ErrorIs(t, err, errorx.Error{Code: errorx.PermissionDenied})

	// A metadata list that does not line up with the quantity is rejected
	// under the same authorization code.
	_, err = lotteryDomain.BuyTickets(ctxUser1, &model.BuyTicketsRequest{
		CurrencyID: entity.NativeCurrencyID,
		Quantity:   2,
		Metadata:   []string{"ipfs://ticket"},
	})
	require.Equal(t, "Action is inconsistent", err.Error())
	require.ErrorIs(t, err, errorx.Error{Code: errorx.PermissionDenied})

	// Only currencies 1 and 2 are approved besides the native one.
	_, err = lotteryDomain.BuyTickets(ctxUser1, buyRequest(ctx, testutil.User1, 3, 1, "0"))
	require.Equal(t, "Unsupported currency", err.Error())

	// Native purchases must attach the exact total.
	_, err = lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, entity.NativeCurrencyID, 1, "19999999999999999"))
	require.Equal(t, "Price entered incorrectly", err.Error())
}

func Test_lotteryDomain_BuyTickets_Token(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	// With the reference price at 0.02 ether and the rate at 2 ether per
	// USDT unit, one ticket costs 10000 (0.01 USDT at 6 decimals).
	feed := &testutil.MockPriceFeed{Rates: map[string]*big.Int{
		testutil.CurrencyUSDT.PriceFeed: big.NewInt(2_000_000_000_000_000_000),
	}}

	ledger := client.NewMemoryTokenLedger("engine")
	lotteryDomain := newTestLotteryDomain(ledger, feed, discardPublisher())
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	// Token purchases must not attach a native payment.
	_, err := lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, testutil.CurrencyUSDT.ID, 2, "1"))
	require.Equal(t, "Unnecessary transfer", err.Error())

	// No allowance yet.
	_, err = lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, testutil.CurrencyUSDT.ID, 2, "0"))
	require.Equal(t, "Insufficient allowance or balance", err.Error())

	ledger.SetAllowance(testutil.CurrencyUSDT.Address, testutil.User1.WalletAddress, big.NewInt(20000))
	ledger.SetBalance(testutil.CurrencyUSDT.Address, testutil.User1.WalletAddress, big.NewInt(20000))

	resp, err := lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, testutil.CurrencyUSDT.ID, 2, "0"))
	require.NoError(t, err)
	require.Equal(t, "20000", resp.TotalPrice)
	require.Equal(t, []int64{0, 1}, resp.TicketNumbers)

	// Funds moved from the buyer into the engine account.
	require.Equal(t, "0",
		ledger.BalanceOf(testutil.CurrencyUSDT.Address, testutil.User1.WalletAddress).String())
	require.Equal(t, "20000", ledger.BalanceOf(testutil.CurrencyUSDT.Address, "engine").String())

	balance, err := lotteryDomain.balanceRepo.Get(ctx, testutil.Event.ID, testutil.CurrencyUSDT.ID)
	require.NoError(t, err)
	require.Equal(t, "20000", balance.Amount.String())
}

func Test_lotteryDomain_BuyTickets_WindowAndSupply(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	ledger := client.NewMemoryTokenLedger("engine")
	lotteryDomain := newTestLotteryDomain(ledger, &testutil.MockPriceFeed{}, discardPublisher())
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	// Oversized purchase against the supply of 10.
	_, err := lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, entity.NativeCurrencyID, 11, "220000000000000000"))
	require.Equal(t, "Tickets sold out", err.Error())

	// Close the window; any further purchase is rejected.
	err = xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=?", testutil.Event.ID).
		Update("end_time", testutil.Event.StartTime).Error
	require.NoError(t, err)

	_, err = lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, entity.NativeCurrencyID, 1, "20000000000000000"))
	require.Equal(t, "Lottery over", err.Error())
}

func Test_lotteryDomain_Prices(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	feed := &testutil.MockPriceFeed{Rates: map[string]*big.Int{
		testutil.CurrencyUSDT.PriceFeed: big.NewInt(3_000_000_000_000_000_000),
	}}
	lotteryDomain := newTestLotteryDomain(client.NewMemoryTokenLedger("engine"), feed, discardPublisher())

	unit, err := lotteryDomain.GetUnitPrice(ctx, &model.GetUnitPriceRequest{CurrencyID: entity.NativeCurrencyID})
	require.NoError(t, err)
	require.Equal(t, "20000000000000000", unit.Price)

	total, err := lotteryDomain.GetTotalPrice(ctx, &model.GetTotalPriceRequest{
		CurrencyID: entity.NativeCurrencyID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, "60000000000000000", total.Price)

	// The token total is floored once over the whole amount, so it is not
	// necessarily quantity times the unit price.
	unit, err = lotteryDomain.GetUnitPrice(ctx, &model.GetUnitPriceRequest{CurrencyID: testutil.CurrencyUSDT.ID})
	require.NoError(t, err)
	require.Equal(t, "6666", unit.Price)

	total, err = lotteryDomain.GetTotalPrice(ctx, &model.GetTotalPriceRequest{
		CurrencyID: testutil.CurrencyUSDT.ID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, "13333", total.Price)
}

func Test_lotteryDomain_CreateEvent(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	lotteryDomain := newTestLotteryDomain(
		client.NewMemoryTokenLedger("engine"), &testutil.MockPriceFeed{}, discardPublisher())

	// Normal users cannot create events.
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := lotteryDomain.CreateEvent(ctxUser1, &model.CreateLotteryEventRequest{})
	require.Equal(t, "Permission denied", err.Error())

	// The fixture event is still pending payout.
	ctxAdmin := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = lotteryDomain.CreateEvent(ctxAdmin, &model.CreateLotteryEventRequest{})
	require.Equal(t, "Still have an incompleted lottery event", err.Error())

	err = xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=?", testutil.Event.ID).
		Update("payout_status", entity.PayoutCompleted).Error
	require.NoError(t, err)

	resp, err := lotteryDomain.CreateEvent(ctxAdmin, &model.CreateLotteryEventRequest{MaxSupply: 50})
	require.NoError(t, err)
	require.Equal(t, int64(50), resp.Event.MaxSupply)
	require.Equal(t, "20000000000000000", resp.Event.TicketPrice)
	require.Equal(t, string(entity.DrawPending), resp.Event.DrawStatus)

	// The new event is now the current one.
	current, err := lotteryDomain.GetEvent(ctx, &model.GetLotteryEventRequest{})
	require.NoError(t, err)
	require.Equal(t, resp.Event.ID, current.Event.ID)
}
