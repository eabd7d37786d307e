package minting

import "errors"

// Minting errors. The HTTP layer maps ErrInvalidMintAddress to 400;
// everything else here stems from external system state and maps to 500.
var (
	// ErrMintFailed wraps any failure while building, submitting or
	// confirming the token creation transaction.
	ErrMintFailed = errors.New("token mint failed")

	// ErrRevokeFailed wraps any failure while inspecting the mint or
	// submitting the revocation transaction.
	ErrRevokeFailed = errors.New("authority revocation failed")

	// ErrInvalidMintAddress is returned when the mint address is not a
	// base58-encoded 32-byte public key.
	ErrInvalidMintAddress = errors.New("invalid mint address")
)
