package ledger

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// LoadOperatorKey decodes the base58 operator private key. The service cannot
// settle anything without it, so callers treat an error as fatal.
func LoadOperatorKey(encoded string) (solana.PrivateKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("%s: key is empty", ErrContextOperatorKey)
	}

	key, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextOperatorKey, err)
	}
	if len(key) != 64 {
		return nil, fmt.Errorf("%s: expected 64 bytes, got %d", ErrContextOperatorKey, len(key))
	}
	return key, nil
}
