package minting

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/solana"
)

// AccountReader is the read-side RPC subset the revoker needs.
// Satisfied by *solana.HTTPClient.
type AccountReader interface {
	GetAccountInfo(ctx context.Context, pubkey string) (*solana.AccountInfo, error)
}

// RevokerOptions configures a Revoker.
type RevokerOptions struct {
	Reader    AccountReader
	Client    ChainClient
	Confirmer solana.SignatureConfirmer // nil skips the confirmation wait
	Authority types.Account             // the service signing key
	Logger    *log.Logger
}

// Revoker strips mint and/or freeze authorities from a token.
// All queued instructions go into a single transaction so the pair
// succeeds or fails atomically.
type Revoker struct {
	reader    AccountReader
	client    ChainClient
	confirmer solana.SignatureConfirmer
	authority types.Account
	logger    *log.Logger
}

// NewRevoker creates a Revoker.
func NewRevoker(opts RevokerOptions) *Revoker {
	r := &Revoker{
		reader:    opts.Reader,
		client:    opts.Client,
		confirmer: opts.Confirmer,
		authority: opts.Authority,
		logger:    opts.Logger,
	}
	if r.logger == nil {
		r.logger = log.New(os.Stdout, "[revoker] ", log.LstdFlags|log.Lshortfile)
	}
	return r
}

// Revoke inspects the mint account and clears the requested
// authorities the service wallet actually holds. Authorities that are
// already empty, skipped by flag, or held by someone else are reported
// as not revoked without failing the call.
func (r *Revoker) Revoke(ctx context.Context, mintAddress string, opts domain.RevokeAuthorityOptions) (*domain.RevocationResult, error) {
	if err := solana.ValidateAddress(mintAddress); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMintAddress, err)
	}

	info, err := r.reader.GetAccountInfo(ctx, mintAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: get mint account: %v", ErrRevokeFailed, err)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: mint account %s does not exist", ErrRevokeFailed, mintAddress)
	}

	account, err := solana.ParseMintAccountBase64(info.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse mint account: %v", ErrRevokeFailed, err)
	}
	if !account.Initialized {
		return nil, fmt.Errorf("%w: account %s is not an initialized mint", ErrRevokeFailed, mintAddress)
	}

	plan := planRevocation(account, r.authority.PublicKey.ToBase58(), opts)
	for _, w := range plan.warnings {
		r.logger.Printf("mint=%s: %s", mintAddress, w)
	}

	// No-op short circuit: nothing to submit is still a success.
	if len(plan.clear) == 0 {
		return &domain.RevocationResult{
			Success:    true,
			Signatures: []string{},
			Revoked:    plan.revoked,
		}, nil
	}

	mintPubkey := common.PublicKeyFromString(mintAddress)
	instructions := make([]types.Instruction, 0, len(plan.clear))
	for _, authType := range plan.clear {
		instructions = append(instructions, token.SetAuthority(token.SetAuthorityParam{
			Account:  mintPubkey,
			NewAuth:  nil,
			AuthType: authType,
			Auth:     r.authority.PublicKey,
		}))
	}

	blockhash, err := r.client.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: latest blockhash: %v", ErrRevokeFailed, err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{r.authority},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        r.authority.PublicKey,
			RecentBlockhash: blockhash,
			Instructions:    instructions,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: build transaction: %v", ErrRevokeFailed, err)
	}

	sig, err := r.client.SendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: send transaction: %v", ErrRevokeFailed, err)
	}

	r.logger.Printf("Submitted revocation: mint=%s instructions=%d sig=%s", mintAddress, len(instructions), sig)

	if r.confirmer != nil {
		if err := r.confirmer.WaitForConfirmation(ctx, sig); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRevokeFailed, err)
		}
	}

	return &domain.RevocationResult{
		Success:    true,
		Signatures: []string{sig},
		Revoked:    plan.revoked,
	}, nil
}

// revocationPlan is the outcome of the pure planning step: which
// authority types to clear, the revoked flags assuming the transaction
// lands, and warnings for the partial-success cases.
type revocationPlan struct {
	clear    []token.AuthorityType
	revoked  domain.RevokedAuthorities
	warnings []string
}

// planRevocation decides, per authority independently, whether an
// instruction is queued:
//
//   - flag false: explicitly skipped
//   - authority already empty: already revoked, nothing to do
//   - authority held by someone else: warn, but don't fail the call
//   - authority held by us: queue a set-authority-to-null instruction
func planRevocation(account *solana.MintAccount, authority string, opts domain.RevokeAuthorityOptions) revocationPlan {
	var plan revocationPlan

	decide := func(name string, requested bool, current *string, authType token.AuthorityType) bool {
		switch {
		case !requested:
			plan.warnings = append(plan.warnings, fmt.Sprintf("%s authority: skipped by request", name))
			return false
		case current == nil:
			plan.warnings = append(plan.warnings, fmt.Sprintf("%s authority: already revoked", name))
			return false
		case *current != authority:
			plan.warnings = append(plan.warnings, fmt.Sprintf("%s authority: held by %s, not the service wallet", name, *current))
			return false
		default:
			plan.clear = append(plan.clear, authType)
			return true
		}
	}

	plan.revoked.MintAuthority = decide("mint", opts.RevokeMintAuthority, account.MintAuthority, token.AuthorityTypeMintTokens)
	plan.revoked.FreezeAuthority = decide("freeze", opts.RevokeFreezeAuthority, account.FreezeAuthority, token.AuthorityTypeFreezeAccount)

	return plan
}
