// Package wallet loads the service signing keypair. The key material
// is injected at startup; nothing here reads ambient globals.
package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// secretKeySize is the ed25519 secret key length (seed + public key).
const secretKeySize = 64

// Load reads a keypair file and parses it. Both solana-keygen JSON
// byte arrays and base58-encoded secret keys are accepted.
func Load(path string) (types.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file: %w", err)
	}

	account, err := Parse(data)
	if err != nil {
		return types.Account{}, fmt.Errorf("parse keypair file %s: %w", path, err)
	}
	return account, nil
}

// Parse decodes keypair material into a signing account.
func Parse(data []byte) (types.Account, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return types.Account{}, fmt.Errorf("empty keypair")
	}

	var keyBytes []byte

	if strings.HasPrefix(raw, "[") {
		// solana-keygen format: JSON array of byte values
		var ints []int
		if err := json.Unmarshal([]byte(raw), &ints); err != nil {
			return types.Account{}, fmt.Errorf("decode keypair json: %w", err)
		}
		keyBytes = make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return types.Account{}, fmt.Errorf("keypair byte out of range at index %d: %d", i, v)
			}
			keyBytes[i] = byte(v)
		}
	} else {
		decoded, err := base58.Decode(raw)
		if err != nil {
			return types.Account{}, fmt.Errorf("decode base58 keypair: %w", err)
		}
		keyBytes = decoded
	}

	if len(keyBytes) != secretKeySize {
		return types.Account{}, fmt.Errorf("keypair must be %d bytes, got %d", secretKeySize, len(keyBytes))
	}

	account, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("restore account: %w", err)
	}
	return account, nil
}
