package utils

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// IsValidPublicKey checks if the given string is a well-formed account public
// key: an algorithm tag byte (01 ed25519, 02 secp256k1) followed by the key
// bytes, hex encoded. It does not verify the key is on-curve.
func IsValidPublicKey(pkHex string) bool {
	decoded, err := hex.DecodeString(pkHex)
	if err != nil {
		return false
	}
	switch {
	case len(decoded) == 33 && decoded[0] == 0x01:
		return true
	case len(decoded) == 34 && decoded[0] == 0x02:
		return true
	default:
		return false
	}
}

// IsValidDeployHash checks if the given string is a valid 32-byte hash in hex.
// Note: it does not check the actual content of the hash.
func IsValidDeployHash(hashHex string) bool {
	decoded, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

// IsValidHex checks the string is non-empty and hex decodable.
func IsValidHex(s string) bool {
	if s == "" {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// IsValidOperationID checks the given string is a well-formed operation id.
func IsValidOperationID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
