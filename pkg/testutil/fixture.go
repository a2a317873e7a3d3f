package testutil

import (
	"context"
	"crypto/ecdsa"
	"strings"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ticketx-lab/backend/internal/entity"
	"github.com/ticketx-lab/backend/pkg/ethutil"
	"github.com/ticketx-lab/backend/pkg/xcontext"
)

var testSecret = []byte("ticketx-testutil")

// IssuerPrivateKey signs purchase authorizations in tests; its address is the
// trusted issuer of MockConfigs.
var IssuerPrivateKey = mustKey("issuer")

var (
	IssuerAddress     = addressOf(IssuerPrivateKey)
	OperatorAddress   = deriveAddress("operator")
	VerifyingContract = deriveAddress("ticket-sale")
)

var Admin = entity.User{
	Base:          entity.Base{ID: "admin"},
	Name:          "admin",
	WalletAddress: deriveAddress("admin"),
	Role:          entity.RoleSuperAdmin,
}

var User1 = entity.User{
	Base:          entity.Base{ID: "user1"},
	Name:          "user1",
	WalletAddress: deriveAddress("user1"),
	Role:          entity.RoleUser,
}

var User2 = entity.User{
	Base:          entity.Base{ID: "user2"},
	Name:          "user2",
	WalletAddress: deriveAddress("user2"),
	Role:          entity.RoleUser,
}

var CurrencyUSDT = entity.Currency{
	ID:        1,
	Address:   deriveAddress("usdt-token"),
	PriceFeed: deriveAddress("usdt-feed"),
	Symbol:    "USDT",
	Decimals:  6,
}

var CurrencyWBNB = entity.Currency{
	ID:        2,
	Address:   deriveAddress("wbnb-token"),
	PriceFeed: deriveAddress("wbnb-feed"),
	Symbol:    "WBNB",
	Decimals:  18,
}

// Event is an open sale window matching the Sale configs: 0.02 ether ticket,
// supply of 10, 10 percent fee.
var Event = entity.LotteryEvent{
	Base:         entity.Base{ID: "event1"},
	StartTime:    time.Now().Add(-time.Hour),
	EndTime:      time.Now().Add(24 * time.Hour),
	MaxSupply:    10,
	SoldTickets:  0,
	TicketPrice:  mustBigInt("20000000000000000"),
	FeePercent:   10,
	DrawStatus:   entity.DrawPending,
	PayoutStatus: entity.PayoutPending,
}

// CreateFixtureDb seeds the database behind ctx with the users, currencies
// and the open lottery event above.
func CreateFixtureDb(ctx context.Context) {
	insertUsers(ctx)
	insertCurrencies(ctx)
	insertEvent(ctx)
}

func insertUsers(ctx context.Context) {
	for _, user := range []entity.User{Admin, User1, User2} {
		if err := xcontext.DB(ctx).Create(&user).Error; err != nil {
			panic(err)
		}
	}
}

func insertCurrencies(ctx context.Context) {
	for _, currency := range []entity.Currency{CurrencyUSDT, CurrencyWBNB} {
		if err := xcontext.DB(ctx).Create(&currency).Error; err != nil {
			panic(err)
		}
	}
}

func insertEvent(ctx context.Context) {
	event := Event
	if err := xcontext.DB(ctx).Create(&event).Error; err != nil {
		panic(err)
	}
}

func mustKey(nonce string) *ecdsa.PrivateKey {
	key, err := ethutil.GeneratePrivateKey(testSecret, []byte(nonce))
	if err != nil {
		panic(err)
	}

	return key
}

func addressOf(key *ecdsa.PrivateKey) string {
	return strings.ToLower(ethcrypto.PubkeyToAddress(key.PublicKey).Hex())
}

func deriveAddress(nonce string) string {
	return addressOf(mustKey(nonce))
}

func mustBigInt(s string) entity.BigInt {
	var b entity.BigInt
	if _, ok := b.SetString(s, 10); !ok {
		panic("invalid big integer " + s)
	}

	return b
}
