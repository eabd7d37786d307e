package minting

import (
	"context"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/types"
)

// ChainClient is the subset of the SDK client needed to build and
// submit transactions. Satisfied by SDKClient in production and by
// stubs in tests.
type ChainClient interface {
	LatestBlockhash(ctx context.Context) (string, error)
	MinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
}

// SDKClient adapts *client.Client to ChainClient.
type SDKClient struct {
	*client.Client
}

// NewSDKClient wraps an SDK client.
func NewSDKClient(c *client.Client) SDKClient {
	return SDKClient{Client: c}
}

// Compile-time interface check.
var _ ChainClient = SDKClient{}

// LatestBlockhash returns the most recent blockhash.
func (c SDKClient) LatestBlockhash(ctx context.Context) (string, error) {
	latest, err := c.Client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}
	return latest.Blockhash, nil
}

// MinimumBalanceForRentExemption returns the rent-exempt balance for
// an account of the given size.
func (c SDKClient) MinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	return c.Client.GetMinimumBalanceForRentExemption(ctx, dataLen)
}
