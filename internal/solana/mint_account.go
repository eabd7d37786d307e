package solana

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/mr-tron/base58"
)

// MintAccountSize is the serialized size of an SPL token mint account.
const MintAccountSize = 82

// MintAccount is the decoded state of an SPL token mint.
// Authority fields are nil when the authority has been revoked.
type MintAccount struct {
	MintAuthority   *string // base58, nil if revoked
	Supply          uint64
	Decimals        uint8
	Initialized     bool
	FreezeAuthority *string // base58, nil if revoked or never set
}

// ParseMintAccount decodes the SPL mint account layout:
//
//	0..4    mint_authority COption tag (u32 LE)
//	4..36   mint_authority pubkey
//	36..44  supply (u64 LE)
//	44      decimals (u8)
//	45      is_initialized (u8)
//	46..50  freeze_authority COption tag (u32 LE)
//	50..82  freeze_authority pubkey
func ParseMintAccount(data []byte) (*MintAccount, error) {
	if len(data) < MintAccountSize {
		return nil, fmt.Errorf("mint account data too short: got %d, want %d", len(data), MintAccountSize)
	}

	m := &MintAccount{
		Supply:      binary.LittleEndian.Uint64(data[36:44]),
		Decimals:    data[44],
		Initialized: data[45] != 0,
	}

	if binary.LittleEndian.Uint32(data[0:4]) == 1 {
		auth := base58.Encode(data[4:36])
		m.MintAuthority = &auth
	}

	if binary.LittleEndian.Uint32(data[46:50]) == 1 {
		auth := base58.Encode(data[50:82])
		m.FreezeAuthority = &auth
	}

	return m, nil
}

// ParseMintAccountBase64 decodes base64 account data as returned by
// getAccountInfo and parses the mint layout.
func ParseMintAccountBase64(encoded string) (*MintAccount, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode account data: %w", err)
	}
	return ParseMintAccount(data)
}

// ValidateAddress checks that addr is a base58-encoded 32-byte public key.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}
	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("decode base58: %w", err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("address must decode to 32 bytes, got %d", len(decoded))
	}
	return nil
}
