package domain

// TokenMetadata is the off-chain metadata document describing a token,
// fetched from a caller-supplied URL. Immutable once fetched.
type TokenMetadata struct {
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Creator     *CreatorInfo `json:"creator,omitempty"`
	ExternalURL string       `json:"external_url,omitempty"`
	Twitter     string       `json:"twitter,omitempty"`
	Telegram    string       `json:"telegram,omitempty"`
	Discord     string       `json:"discord,omitempty"`
}

// CreatorInfo identifies the token creator in the metadata document.
type CreatorInfo struct {
	Name string `json:"name,omitempty"`
	Site string `json:"site,omitempty"`
}

// TokenCreationResult describes a successfully minted token.
// Created once per mint call, never mutated.
type TokenCreationResult struct {
	MintAddress          string `json:"mintAddress"`
	TransactionSignature string `json:"transactionSignature"`
	ExplorerURL          string `json:"explorerUrl"`
}

// RevokeAuthorityOptions selects which authorities to revoke.
// Both default to true when the caller leaves them unset.
type RevokeAuthorityOptions struct {
	RevokeMintAuthority   bool `json:"revokeMintAuthority"`
	RevokeFreezeAuthority bool `json:"revokeFreezeAuthority"`
}

// RevokedAuthorities reports which authorities were cleared by a
// single revocation call. An authority that was already empty, skipped
// by flag, or not owned by the service wallet stays false.
type RevokedAuthorities struct {
	MintAuthority   bool `json:"mintAuthority"`
	FreezeAuthority bool `json:"freezeAuthority"`
}

// RevocationResult is the outcome of one revoke call. Signatures is
// empty when no instructions were queued (no-op short circuit).
type RevocationResult struct {
	Success    bool               `json:"success"`
	Signatures []string           `json:"signatures"`
	Revoked    RevokedAuthorities `json:"revoked"`
	Error      string             `json:"error,omitempty"`
}

// CreationRecord is the audit row written after each successful mint.
// Append-only, keyed by mint address.
type CreationRecord struct {
	Mint        string `json:"mint"`        // token mint address, primary key
	Name        string `json:"name"`        // token name at creation time
	Symbol      string `json:"symbol"`      // token symbol at creation time
	MetadataURL string `json:"metadataUrl"` // URL the metadata was fetched from
	Signature   string `json:"signature"`   // creation transaction signature
	ExplorerURL string `json:"explorerUrl"` // explorer link for the transaction
	CreatedAt   int64  `json:"createdAt"`   // Unix timestamp in milliseconds
}
