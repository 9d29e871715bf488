package contract

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/blockberries/elderberry/commit"
)

func addScalars(a, b BlindingFactor) [32]byte {
	var sa, sb secp256k1.ModNScalar
	ab, bb := [32]byte(a), [32]byte(b)
	sa.SetBytes(&ab)
	sb.SetBytes(&bb)
	sa.Add(&sb)
	return sa.Bytes()
}

func commitBytes(e commit.Encoder) []byte { return commit.Encode(e) }
