package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casperstation/operations-api-service/internal/utils"
)

func TestIsValidPublicKey(t *testing.T) {
	ed25519Key := "01" + strings.Repeat("ab", 32)
	secp256k1Key := "02" + strings.Repeat("cd", 33)

	assert.True(t, utils.IsValidPublicKey(ed25519Key))
	assert.True(t, utils.IsValidPublicKey(secp256k1Key))

	assert.False(t, utils.IsValidPublicKey(""))
	assert.False(t, utils.IsValidPublicKey("zz"+strings.Repeat("ab", 32)))
	// Wrong length for the tag.
	assert.False(t, utils.IsValidPublicKey("01"+strings.Repeat("ab", 33)))
	assert.False(t, utils.IsValidPublicKey("02"+strings.Repeat("cd", 32)))
	// Unknown algorithm tag.
	assert.False(t, utils.IsValidPublicKey("03"+strings.Repeat("ab", 32)))
}

func TestIsValidDeployHash(t *testing.T) {
	assert.True(t, utils.IsValidDeployHash(strings.Repeat("ab", 32)))
	assert.False(t, utils.IsValidDeployHash(strings.Repeat("ab", 31)))
	assert.False(t, utils.IsValidDeployHash("not-hex"))
	assert.False(t, utils.IsValidDeployHash(""))
}

func TestIsValidHex(t *testing.T) {
	assert.True(t, utils.IsValidHex("deadbeef"))
	assert.False(t, utils.IsValidHex(""))
	assert.False(t, utils.IsValidHex("xyz"))
}

func TestIsValidOperationID(t *testing.T) {
	assert.True(t, utils.IsValidOperationID("11111111-1111-1111-1111-111111111111"))
	assert.False(t, utils.IsValidOperationID("not-an-id"))
	assert.False(t, utils.IsValidOperationID(""))
}
