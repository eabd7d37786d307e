// Package minting creates SPL tokens and revokes their authorities.
// Transaction construction and signing are delegated to the Solana SDK;
// this package sequences the instructions and reports the outcome.
package minting

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/solana"
)

// Mint defaults: a fungible token with 10^9 whole tokens.
const (
	DefaultDecimals      = uint8(9)
	DefaultInitialSupply = uint64(1_000_000_000)
)

// MinterOptions configures a Minter.
type MinterOptions struct {
	Client    ChainClient
	Confirmer solana.SignatureConfirmer // nil skips the confirmation wait
	FeePayer  types.Account
	Cluster   string // devnet | testnet | mainnet-beta, for explorer links
	Decimals  uint8
	// InitialSupply is the whole-token supply minted to the fee payer's
	// associated token account. Zero falls back to the default.
	InitialSupply uint64
	Logger        *log.Logger
}

// Minter creates tokens on-chain using the locally held signing key.
//
// The mint contract is one transaction: create the mint account,
// initialize it with the fee payer as mint and freeze authority, attach
// Metaplex metadata, create the fee payer's associated token account
// and mint the initial supply into it. Keeping both authorities on the
// fee payer is what makes a later revoke call possible.
type Minter struct {
	client        ChainClient
	confirmer     solana.SignatureConfirmer
	feePayer      types.Account
	cluster       string
	decimals      uint8
	initialSupply uint64
	logger        *log.Logger
}

// NewMinter creates a Minter.
func NewMinter(opts MinterOptions) *Minter {
	m := &Minter{
		client:        opts.Client,
		confirmer:     opts.Confirmer,
		feePayer:      opts.FeePayer,
		cluster:       opts.Cluster,
		decimals:      opts.Decimals,
		initialSupply: opts.InitialSupply,
		logger:        opts.Logger,
	}
	if m.decimals == 0 {
		m.decimals = DefaultDecimals
	}
	if m.initialSupply == 0 {
		m.initialSupply = DefaultInitialSupply
	}
	if m.logger == nil {
		m.logger = log.New(os.Stdout, "[minter] ", log.LstdFlags|log.Lshortfile)
	}
	return m
}

// Mint submits the token creation transaction and waits for
// confirmation. metadataURL is the URL the metadata was fetched from;
// it becomes the on-chain metadata URI.
func (m *Minter) Mint(ctx context.Context, meta *domain.TokenMetadata, metadataURL string) (*domain.TokenCreationResult, error) {
	mint := types.NewAccount()
	payer := m.feePayer.PublicKey

	rent, err := m.client.MinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return nil, fmt.Errorf("%w: rent exemption: %v", ErrMintFailed, err)
	}

	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: derive metadata account: %v", ErrMintFailed, err)
	}

	ata, _, err := common.FindAssociatedTokenAddress(payer, mint.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: derive associated token account: %v", ErrMintFailed, err)
	}

	blockhash, err := m.client.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: latest blockhash: %v", ErrMintFailed, err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{mint, m.feePayer},
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        payer,
			RecentBlockhash: blockhash,
			Instructions: []types.Instruction{
				system.CreateAccount(system.CreateAccountParam{
					From:     payer,
					New:      mint.PublicKey,
					Owner:    common.TokenProgramID,
					Lamports: rent,
					Space:    token.MintAccountSize,
				}),
				token.InitializeMint(token.InitializeMintParam{
					Decimals:   m.decimals,
					Mint:       mint.PublicKey,
					MintAuth:   payer,
					FreezeAuth: &payer,
				}),
				token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
					Metadata:                metadataPubkey,
					Mint:                    mint.PublicKey,
					MintAuthority:           payer,
					UpdateAuthority:         payer,
					Payer:                   payer,
					UpdateAuthorityIsSigner: true,
					IsMutable:               true,
					Data: token_metadata.DataV2{
						Name:                 meta.Name,
						Symbol:               meta.Symbol,
						Uri:                  metadataURL,
						SellerFeeBasisPoints: 0,
						Creators: &[]token_metadata.Creator{
							{
								Address:  payer,
								Verified: true,
								Share:    100,
							},
						},
					},
					CollectionDetails: nil,
				}),
				associated_token_account.CreateAssociatedTokenAccount(
					associated_token_account.CreateAssociatedTokenAccountParam{
						Funder:                 payer,
						Owner:                  payer,
						Mint:                   mint.PublicKey,
						AssociatedTokenAccount: ata,
					},
				),
				token.MintTo(token.MintToParam{
					Mint:   mint.PublicKey,
					To:     ata,
					Auth:   payer,
					Amount: rawSupply(m.initialSupply, m.decimals),
				}),
			},
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: build transaction: %v", ErrMintFailed, err)
	}

	sig, err := m.client.SendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: send transaction: %v", ErrMintFailed, err)
	}

	mintAddr := mint.PublicKey.ToBase58()
	m.logger.Printf("Submitted mint transaction: mint=%s symbol=%s sig=%s", mintAddr, meta.Symbol, sig)

	if m.confirmer != nil {
		if err := m.confirmer.WaitForConfirmation(ctx, sig); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMintFailed, err)
		}
	}

	return &domain.TokenCreationResult{
		MintAddress:          mintAddr,
		TransactionSignature: sig,
		ExplorerURL:          ExplorerTxURL(m.cluster, sig),
	}, nil
}

// rawSupply converts a whole-token supply to base units.
func rawSupply(supply uint64, decimals uint8) uint64 {
	raw := supply
	for i := uint8(0); i < decimals; i++ {
		raw *= 10
	}
	return raw
}

// ExplorerTxURL builds a Solana explorer link for a transaction.
func ExplorerTxURL(cluster, signature string) string {
	if cluster == "" || cluster == "mainnet-beta" {
		return fmt.Sprintf("https://explorer.solana.com/tx/%s", signature)
	}
	return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=%s", signature, cluster)
}
