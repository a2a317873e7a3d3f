package eth

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Minimal aggregator surface; every chainlink-compatible feed exposes it.
const aggregatorABI = `[
  {
    "inputs": [],
    "name": "latestRoundData",
    "outputs": [
      {"internalType": "uint80", "name": "roundId", "type": "uint80"},
      {"internalType": "int256", "name": "answer", "type": "int256"},
      {"internalType": "uint256", "name": "startedAt", "type": "uint256"},
      {"internalType": "uint256", "name": "updatedAt", "type": "uint256"},
      {"internalType": "uint80", "name": "answeredInRound", "type": "uint80"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

// PriceFeedCaller reads exchange rates from on-chain aggregator contracts.
// One feed contract per approved currency.
type PriceFeedCaller struct {
	client *ethclient.Client
	abi    abi.ABI
}

func NewPriceFeedCaller(rpcURL string) (*PriceFeedCaller, error) {
	parsed, err := abi.JSON(strings.NewReader(aggregatorABI))
	if err != nil {
		return nil, fmt.Errorf("cannot parse aggregator abi: %w", err)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("cannot dial eth rpc: %w", err)
	}

	return &PriceFeedCaller{client: client, abi: parsed}, nil
}

func (c *PriceFeedCaller) LatestPrice(ctx context.Context, feedAddress string) (*big.Int, error) {
	data, err := c.abi.Pack("latestRoundData")
	if err != nil {
		return nil, fmt.Errorf("cannot pack latestRoundData: %w", err)
	}

	to := common.HexToAddress(feedAddress)
	out, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("feed call failed: %w", err)
	}

	results, err := c.abi.Unpack("latestRoundData", out)
	if err != nil {
		return nil, fmt.Errorf("cannot unpack latestRoundData: %w", err)
	}

	answer, ok := results[1].(*big.Int)
	if !ok || answer.Sign() <= 0 {
		return nil, fmt.Errorf("feed %s returned an invalid rate", feedAddress)
	}

	return answer, nil
}
