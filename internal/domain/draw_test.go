package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ticketx-lab/backend/internal/client"
	"github.com/ticketx-lab/backend/internal/common"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/internal/model"
	"github.com/ticketx-lab/backend/internal/repository"
	"github.com/ticketx-lab/backend/pkg/testutil"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

func newTestDrawDomain(provider client.RandomnessProvider) *drawDomain {
	return &drawDomain{
		lotteryRepo:        repository.NewLotteryRepository(),
		ticketRepo:         repository.NewTicketRepository(),
		roleVerifier:       common.NewGlobalRoleVerifier(repository.NewUserRepository()),
		randomnessProvider: provider,
		eventPublisher:     discardPublisher(),
	}
}

func Test_drawDomain_FullScenario(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	ledger := client.NewMemoryTokenLedger("engine")
	lotteryDomain := newTestLotteryDomain(ledger, &testutil.MockPriceFeed{}, discardPublisher())
	drawDomain := newTestDrawDomain(&testutil.MockRandomnessProvider{RequestID: 777})

	// Tickets 0..2 belong to user1, tickets 3..4 to user2.
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, entity.NativeCurrencyID, 3, "60000000000000000"))
	require.NoError(t, err)

	ctxUser2 := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err = lotteryDomain.BuyTickets(
		ctxUser2, buyRequest(ctx, testutil.User2, entity.NativeCurrencyID, 2, "40000000000000000"))
	require.NoError(t, err)

	// The window is still open and the supply is not exhausted.
	ctxAdmin := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = drawDomain.RequestDraw(ctxAdmin, &model.RequestDrawRequest{})
	require.Equal(t, "Lottery is not over", err.Error())

	err = xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=?", testutil.Event.ID).
		Update("end_time", testutil.Event.StartTime).Error
	require.NoError(t, err)

	_, err = drawDomain.RequestDraw(ctxUser1, &model.RequestDrawRequest{})
	require.Equal(t, "Permission denied", err.Error())

	resp, err := drawDomain.RequestDraw(ctxAdmin, &model.RequestDrawRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(777), resp.RequestID)

	_, err = drawDomain.RequestDraw(ctxAdmin, &model.RequestDrawRequest{})
	require.Equal(t, "The draw was already requested", err.Error())

	// Before fulfillment the winner is a placeholder.
	winner, err := drawDomain.GetWinner(ctx, &model.GetWinnerRequest{})
	require.NoError(t, err)
	require.Equal(t, string(entity.DrawRequested), winner.DrawStatus)
	require.Equal(t, int64(0), winner.WinningTicket)
	require.Empty(t, winner.Owner)

	// A delivery with an unknown request id is dropped.
	drawDomain.Fulfill(ctx, 778, big.NewInt(99))
	winner, err = drawDomain.GetWinner(ctx, &model.GetWinnerRequest{})
	require.NoError(t, err)
	require.Equal(t, string(entity.DrawRequested), winner.DrawStatus)

	// 12 mod 5 sold tickets selects ticket 2, owned by user1.
	drawDomain.Fulfill(ctx, 777, big.NewInt(12))
	winner, err = drawDomain.GetWinner(ctx, &model.GetWinnerRequest{})
	require.NoError(t, err)
	require.Equal(t, string(entity.DrawFulfilled), winner.DrawStatus)
	require.Equal(t, int64(2), winner.WinningTicket)
	require.Equal(t, testutil.User1.WalletAddress, winner.Owner)

	// A repeated delivery cannot move the winner.
	drawDomain.Fulfill(ctx, 777, big.NewInt(3))
	winner, err = drawDomain.GetWinner(ctx, &model.GetWinnerRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), winner.WinningTicket)
}

func Test_drawDomain_RequestDraw_NoTicketsSold(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	drawDomain := newTestDrawDomain(&testutil.MockRandomnessProvider{RequestID: 1})

	err := xcontext.DB(ctx).Model(&entity.LotteryEvent{}).
		Where("id=?", testutil.Event.ID).
		Update("end_time", testutil.Event.StartTime).Error
	require.NoError(t, err)

	ctxAdmin := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = drawDomain.RequestDraw(ctxAdmin, &model.RequestDrawRequest{})
	require.Equal(t, "No tickets were sold", err.Error())
}

func Test_drawDomain_RequestDraw_SoldOut(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	ledger := client.NewMemoryTokenLedger("engine")
	lotteryDomain := newTestLotteryDomain(ledger, &testutil.MockPriceFeed{}, discardPublisher())
	drawDomain := newTestDrawDomain(&testutil.MockRandomnessProvider{RequestID: 5})

	// Selling the whole supply closes the sale before the window elapses.
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := lotteryDomain.BuyTickets(
		ctxUser1, buyRequest(ctx, testutil.User1, entity.NativeCurrencyID, 10, "200000000000000000"))
	require.NoError(t, err)

	ctxAdmin := testutil.NewMockContextWithUserID(ctx, testutil.Admin.ID)
	resp, err := drawDomain.RequestDraw(ctxAdmin, &model.RequestDrawRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(5), resp.RequestID)
}
