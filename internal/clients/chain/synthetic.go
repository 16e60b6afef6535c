package chain

import "github.com/casperstation/operations-api-service/internal/types"

// SandboxValidators is the fixed illustrative validator set substituted when
// the network auction state cannot be fetched. It is synthetic sandbox data;
// results built from it always carry the degraded marker.
func SandboxValidators() []types.ValidatorBid {
	return []types.ValidatorBid{
		{
			PublicKeyHex:      "0106ca7c39cd272dbf21a86eeb3b36b7c26e2e9b94af64292419f7862936bca2ca",
			TotalStakeMotes:   12_500_000 * types.MotesPerCSPR,
			CommissionPercent: 5,
			IsActive:          true,
		},
		{
			PublicKeyHex:      "017d96b9a63abcb61c870a4f55187a0a7ac24096bdb5fc585c12a686a4d892009e",
			TotalStakeMotes:   8_200_000 * types.MotesPerCSPR,
			CommissionPercent: 10,
			IsActive:          true,
		},
		{
			PublicKeyHex:      "01aa17afbf86d4d398e1e1a5cd6e34b923d2c571cb0bbfb95ef671cdee9f6a0e1b",
			TotalStakeMotes:   6_750_000 * types.MotesPerCSPR,
			CommissionPercent: 8,
			IsActive:          true,
		},
		{
			PublicKeyHex:      "0203ae08e8bd8e1b8dcf4b0b698fb6f2ab99226b5ba1dd95c04a18617cdc2e0ff4c2",
			TotalStakeMotes:   4_100_000 * types.MotesPerCSPR,
			CommissionPercent: 12,
			IsActive:          true,
		},
		{
			PublicKeyHex:      "01f9f4a900ac0e75a05b07c6f7680cbba3e9fb6aaf371a0eebd6e1f4c7ab1a3b2d",
			TotalStakeMotes:   2_900_000 * types.MotesPerCSPR,
			CommissionPercent: 15,
			IsActive:          false,
		},
	}
}
