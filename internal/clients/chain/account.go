package chain

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// AccountHashFromPublicKey derives the account identifier of a public key:
// blake2b-256 over the lowercase algorithm name, a zero separator byte and
// the raw key bytes, rendered as "account-hash-<hex>".
func AccountHashFromPublicKey(publicKeyHex string) (string, error) {
	decoded, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return "", fmt.Errorf("public key is not valid hex: %w", err)
	}
	if len(decoded) < 2 {
		return "", fmt.Errorf("public key too short")
	}

	var algorithm string
	switch decoded[0] {
	case 0x01:
		algorithm = "ed25519"
	case 0x02:
		algorithm = "secp256k1"
	default:
		return "", fmt.Errorf("unknown public key algorithm tag: %#x", decoded[0])
	}

	preimage := make([]byte, 0, len(algorithm)+1+len(decoded)-1)
	preimage = append(preimage, []byte(algorithm)...)
	preimage = append(preimage, 0x00)
	preimage = append(preimage, decoded[1:]...)

	digest := blake2b.Sum256(preimage)
	return fmt.Sprintf("account-hash-%s", hex.EncodeToString(digest[:])), nil
}
