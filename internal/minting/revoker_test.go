package minting

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/solana"
	"solana-token-forge/internal/solana/stub"
)

// testBlockhash decodes to 32 bytes, as a real blockhash does.
const testBlockhash = "So11111111111111111111111111111111111111112"

type stubChain struct {
	blockhash string
	rent      uint64
	sig       string
	sendErr   error
	sent      []types.Transaction
}

func (c *stubChain) LatestBlockhash(ctx context.Context) (string, error) {
	return c.blockhash, nil
}

func (c *stubChain) MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return c.rent, nil
}

func (c *stubChain) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	if c.sendErr != nil {
		return "", c.sendErr
	}
	c.sent = append(c.sent, tx)
	return c.sig, nil
}

func newStubChain() *stubChain {
	return &stubChain{blockhash: testBlockhash, rent: 1_461_600, sig: "revoke-sig"}
}

// mintAccountData serializes the 82-byte SPL mint layout.
func mintAccountData(t *testing.T, mintAuth, freezeAuth *string, initialized bool) string {
	t.Helper()
	data := make([]byte, solana.MintAccountSize)
	if mintAuth != nil {
		binary.LittleEndian.PutUint32(data[0:4], 1)
		raw, err := base58.Decode(*mintAuth)
		require.NoError(t, err)
		copy(data[4:36], raw)
	}
	data[44] = 9
	if initialized {
		data[45] = 1
	}
	if freezeAuth != nil {
		binary.LittleEndian.PutUint32(data[46:50], 1)
		raw, err := base58.Decode(*freezeAuth)
		require.NoError(t, err)
		copy(data[50:82], raw)
	}
	return base64.StdEncoding.EncodeToString(data)
}

func strPtr(s string) *string { return &s }

func bothTrue() domain.RevokeAuthorityOptions {
	return domain.RevokeAuthorityOptions{RevokeMintAuthority: true, RevokeFreezeAuthority: true}
}

func TestPlanRevocation(t *testing.T) {
	us := types.NewAccount().PublicKey.ToBase58()
	other := types.NewAccount().PublicKey.ToBase58()

	cases := []struct {
		name       string
		account    *solana.MintAccount
		opts       domain.RevokeAuthorityOptions
		wantClear  int
		wantMint   bool
		wantFreeze bool
	}{
		{
			name:       "both held by us",
			account:    &solana.MintAccount{MintAuthority: strPtr(us), FreezeAuthority: strPtr(us), Initialized: true},
			opts:       bothTrue(),
			wantClear:  2,
			wantMint:   true,
			wantFreeze: true,
		},
		{
			name:      "both already revoked",
			account:   &solana.MintAccount{Initialized: true},
			opts:      bothTrue(),
			wantClear: 0,
		},
		{
			name:      "both flags false",
			account:   &solana.MintAccount{MintAuthority: strPtr(us), FreezeAuthority: strPtr(us), Initialized: true},
			opts:      domain.RevokeAuthorityOptions{},
			wantClear: 0,
		},
		{
			name:      "held by someone else",
			account:   &solana.MintAccount{MintAuthority: strPtr(other), FreezeAuthority: strPtr(other), Initialized: true},
			opts:      bothTrue(),
			wantClear: 0,
		},
		{
			name:      "mint only",
			account:   &solana.MintAccount{MintAuthority: strPtr(us), FreezeAuthority: strPtr(us), Initialized: true},
			opts:      domain.RevokeAuthorityOptions{RevokeMintAuthority: true},
			wantClear: 1,
			wantMint:  true,
		},
		{
			name:       "freeze held by us, mint already gone",
			account:    &solana.MintAccount{FreezeAuthority: strPtr(us), Initialized: true},
			opts:       bothTrue(),
			wantClear:  1,
			wantFreeze: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := planRevocation(tc.account, us, tc.opts)
			require.Len(t, plan.clear, tc.wantClear)
			require.Equal(t, tc.wantMint, plan.revoked.MintAuthority)
			require.Equal(t, tc.wantFreeze, plan.revoked.FreezeAuthority)
		})
	}
}

func TestPlanRevocation_AuthorityTypes(t *testing.T) {
	us := types.NewAccount().PublicKey.ToBase58()
	account := &solana.MintAccount{MintAuthority: strPtr(us), FreezeAuthority: strPtr(us), Initialized: true}

	plan := planRevocation(account, us, bothTrue())

	require.Equal(t, []token.AuthorityType{
		token.AuthorityTypeMintTokens,
		token.AuthorityTypeFreezeAccount,
	}, plan.clear)
}

func TestRevoke_InvalidAddress(t *testing.T) {
	revoker := NewRevoker(RevokerOptions{
		Reader:    stub.NewRPCClient(),
		Client:    newStubChain(),
		Authority: types.NewAccount(),
	})

	_, err := revoker.Revoke(context.Background(), "not-base58!", bothTrue())
	require.ErrorIs(t, err, ErrInvalidMintAddress)
}

func TestRevoke_MissingAccount(t *testing.T) {
	authority := types.NewAccount()
	revoker := NewRevoker(RevokerOptions{
		Reader:    stub.NewRPCClient(),
		Client:    newStubChain(),
		Authority: authority,
	})

	mint := types.NewAccount().PublicKey.ToBase58()
	_, err := revoker.Revoke(context.Background(), mint, bothTrue())
	require.ErrorIs(t, err, ErrRevokeFailed)
}

func TestRevoke_UninitializedAccount(t *testing.T) {
	authority := types.NewAccount()
	mint := types.NewAccount().PublicKey.ToBase58()

	reader := stub.NewRPCClient()
	us := authority.PublicKey.ToBase58()
	reader.AddAccount(mint, &solana.AccountInfo{
		Data: mintAccountData(t, strPtr(us), strPtr(us), false),
	})

	revoker := NewRevoker(RevokerOptions{
		Reader:    reader,
		Client:    newStubChain(),
		Authority: authority,
	})

	_, err := revoker.Revoke(context.Background(), mint, bothTrue())
	require.ErrorIs(t, err, ErrRevokeFailed)
}

func TestRevoke_BothAuthoritiesInOneTransaction(t *testing.T) {
	authority := types.NewAccount()
	us := authority.PublicKey.ToBase58()
	mint := types.NewAccount().PublicKey.ToBase58()

	reader := stub.NewRPCClient()
	reader.AddAccount(mint, &solana.AccountInfo{
		Data: mintAccountData(t, strPtr(us), strPtr(us), true),
	})

	chain := newStubChain()
	confirmer := &stub.Confirmer{}
	revoker := NewRevoker(RevokerOptions{
		Reader:    reader,
		Client:    chain,
		Confirmer: confirmer,
		Authority: authority,
	})

	result, err := revoker.Revoke(context.Background(), mint, bothTrue())

	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, []string{"revoke-sig"}, result.Signatures)
	require.True(t, result.Revoked.MintAuthority)
	require.True(t, result.Revoked.FreezeAuthority)
	require.Len(t, chain.sent, 1, "both revocations must share one transaction")
	require.Equal(t, []string{"revoke-sig"}, confirmer.Waited)
}

func TestRevoke_AlreadyRevokedIsNoOp(t *testing.T) {
	authority := types.NewAccount()
	mint := types.NewAccount().PublicKey.ToBase58()

	reader := stub.NewRPCClient()
	reader.AddAccount(mint, &solana.AccountInfo{
		Data: mintAccountData(t, nil, nil, true),
	})

	chain := newStubChain()
	revoker := NewRevoker(RevokerOptions{
		Reader:    reader,
		Client:    chain,
		Authority: authority,
	})

	result, err := revoker.Revoke(context.Background(), mint, bothTrue())

	require.NoError(t, err)
	require.True(t, result.Success)
	require.Empty(t, result.Signatures)
	require.False(t, result.Revoked.MintAuthority)
	require.False(t, result.Revoked.FreezeAuthority)
	require.Empty(t, chain.sent, "no transaction for a no-op revocation")
}

func TestRevoke_SendFailure(t *testing.T) {
	authority := types.NewAccount()
	us := authority.PublicKey.ToBase58()
	mint := types.NewAccount().PublicKey.ToBase58()

	reader := stub.NewRPCClient()
	reader.AddAccount(mint, &solana.AccountInfo{
		Data: mintAccountData(t, strPtr(us), strPtr(us), true),
	})

	chain := newStubChain()
	chain.sendErr = errors.New("blockhash expired")
	revoker := NewRevoker(RevokerOptions{
		Reader:    reader,
		Client:    chain,
		Authority: authority,
	})

	_, err := revoker.Revoke(context.Background(), mint, bothTrue())
	require.ErrorIs(t, err, ErrRevokeFailed)
}
