package stub

import (
	"context"
	"sync"

	"solana-token-forge/internal/solana"
)

// RPCClient implements the read-side RPC methods for testing.
type RPCClient struct {
	mu       sync.Mutex
	Accounts map[string]*solana.AccountInfo
	Statuses map[string]*solana.SignatureStatus
	// Err, when set, is returned by every call.
	Err error
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts: make(map[string]*solana.AccountInfo),
		Statuses: make(map[string]*solana.SignatureStatus),
	}
}

// GetAccountInfo retrieves account info from the stub store.
// Returns nil for unknown accounts, matching the real client.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	return c.Accounts[pubkey], nil
}

// GetSignatureStatuses retrieves statuses from the stub store,
// index-aligned with the input.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures []string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	statuses := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		statuses[i] = c.Statuses[sig]
	}
	return statuses, nil
}

// AddAccount adds an account to the stub store.
func (c *RPCClient) AddAccount(pubkey string, info *solana.AccountInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[pubkey] = info
}

// AddStatus adds a signature status to the stub store.
func (c *RPCClient) AddStatus(signature string, status *solana.SignatureStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statuses[signature] = status
}

// Confirmer implements solana.SignatureConfirmer for testing,
// recording every signature it was asked to wait for.
type Confirmer struct {
	mu     sync.Mutex
	Waited []string
	// Err, when set, is returned by every call.
	Err error
}

// WaitForConfirmation records the signature and returns Err.
func (c *Confirmer) WaitForConfirmation(_ context.Context, signature string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Waited = append(c.Waited, signature)
	return c.Err
}

var _ solana.SignatureConfirmer = (*Confirmer)(nil)
