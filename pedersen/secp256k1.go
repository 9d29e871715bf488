package pedersen

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/blockberries/elderberry/commit"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Serialization prefixes of a commitment point.
const (
	prefixEven = 0x08
	prefixOdd  = 0x09
)

// Secp256k1 commits over the secp256k1 curve.
type Secp256k1 struct{}

var _ Backend = Secp256k1{}

var (
	generatorOnce sync.Once
	generator     secp256k1.JacobianPoint
)

// generatorH derives H once by hashing the uncompressed base point
// and rejection-sampling x coordinates until one lies on the curve.
func generatorH() *secp256k1.JacobianPoint {
	generatorOnce.Do(func() {
		var one secp256k1.ModNScalar
		one.SetInt(1)
		var g secp256k1.JacobianPoint
		secp256k1.ScalarBaseMultNonConst(&one, &g)
		g.ToAffine()
		seed := sha256.Sum256(secp256k1.NewPublicKey(&g.X, &g.Y).SerializeUncompressed())

		var msg [36]byte
		copy(msg[:32], seed[:])
		for ctr := uint32(0); ; ctr++ {
			binary.LittleEndian.PutUint32(msg[32:], ctr)
			xb := commit.TaggedHash(commit.TagPedersenGen, msg[:])
			var x, y, z secp256k1.FieldVal
			if overflow := x.SetByteSlice(xb[:]); overflow {
				continue
			}
			if !secp256k1.DecompressY(&x, false, &y) {
				continue
			}
			z.SetInt(1)
			generator = secp256k1.MakeJacobianPoint(&x, &y, &z)
			return
		}
	})
	return &generator
}

func (Secp256k1) Commit(value uint64, blinding [32]byte) (Commitment, error) {
	var b, v secp256k1.ModNScalar
	b.SetBytes(&blinding)
	var vb [32]byte
	binary.BigEndian.PutUint64(vb[24:], value)
	v.SetBytes(&vb)

	h := *generatorH()
	var bG, vH, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&b, &bG)
	secp256k1.ScalarMultNonConst(&v, &h, &vH)
	secp256k1.AddNonConst(&bG, &vH, &sum)
	return serializePoint(&sum)
}

func (Secp256k1) Add(a, b Commitment) (Commitment, error) {
	pa, err := parsePoint(a)
	if err != nil {
		return Commitment{}, err
	}
	pb, err := parsePoint(b)
	if err != nil {
		return Commitment{}, err
	}
	var sum secp256k1.JacobianPoint
	secp256k1.AddNonConst(&pa, &pb, &sum)
	return serializePoint(&sum)
}

func (Secp256k1) Parse(data []byte) (Commitment, error) {
	var c Commitment
	if len(data) != CommitmentSize {
		return c, fmt.Errorf("%w: length %d, expected %d", ErrInvalidCommitment, len(data), CommitmentSize)
	}
	copy(c[:], data)
	if _, err := parsePoint(c); err != nil {
		return Commitment{}, err
	}
	return c, nil
}

func (Secp256k1) CheckScalar(b [32]byte) error {
	var s secp256k1.ModNScalar
	if overflow := s.SetBytes(&b); overflow != 0 || s.IsZero() {
		return ErrInvalidScalar
	}
	return nil
}

func serializePoint(p *secp256k1.JacobianPoint) (Commitment, error) {
	var c Commitment
	p.ToAffine()
	if p.X.IsZero() && p.Y.IsZero() {
		return c, ErrInfinity
	}
	c[0] = prefixEven
	if p.Y.IsOdd() {
		c[0] = prefixOdd
	}
	p.X.PutBytes((*[32]byte)(c[1:]))
	return c, nil
}

func parsePoint(c Commitment) (secp256k1.JacobianPoint, error) {
	var odd bool
	switch c[0] {
	case prefixEven:
	case prefixOdd:
		odd = true
	default:
		return secp256k1.JacobianPoint{}, fmt.Errorf("%w: prefix %#02x", ErrInvalidCommitment, c[0])
	}
	var x, y, z secp256k1.FieldVal
	if overflow := x.SetByteSlice(c[1:]); overflow {
		return secp256k1.JacobianPoint{}, fmt.Errorf("%w: x coordinate overflows field", ErrInvalidCommitment)
	}
	if !secp256k1.DecompressY(&x, odd, &y) {
		return secp256k1.JacobianPoint{}, fmt.Errorf("%w: x coordinate is not on the curve", ErrInvalidCommitment)
	}
	z.SetInt(1)
	return secp256k1.MakeJacobianPoint(&x, &y, &z), nil
}
