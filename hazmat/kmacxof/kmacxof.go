// Package kmacxof wraps the cSHAKE128/cSHAKE256 extendable-output functions as the external
// Keccak-XOF collaborator used by [schemes/kmac].
//
// The Keccak permutation and its sponge construction are out of scope for this repository (spec
// §1): they are treated as an external primitive, identified by name the way OpenSSL's provider
// dispatch identifies them ("KECCAK_KMAC128"/"KECCAK_KMAC256"), and backed here by
// [golang.org/x/crypto/sha3]. Because NewCShake128/NewCShake256 already absorb
// bytepad(encode_string(N) || encode_string(S), rate) for a non-empty function-name N, passing
// N = "KMAC" gives exactly the domain-separated sponge spec §4.5 requires; this package is
// consequently the "cSHAKE-with-name=KMAC" primitive spec §4.5's closing note assumes.
package kmacxof

import (
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Recognized Keccak-XOF variant names.
const (
	KMAC128 = "KECCAK_KMAC128"
	KMAC256 = "KECCAK_KMAC256"
)

// kmacFunctionName is the raw function name "KMAC", passed as cSHAKE's N parameter; the
// underlying sponge applies encode_string to it and absorbs the resulting domain-separation block
// on construction.
var kmacFunctionName = []byte("KMAC")

// XOF is a cloneable, absorb-then-squeeze Keccak sponge bound to one of the KMAC variants.
type XOF struct {
	h         sha3.ShakeHash
	blockSize int
}

// New allocates a fresh XOF identified by name (KMAC128 or KMAC256), pre-absorbing customization
// into the domain-separated sponge.
func New(name string, customization []byte) (*XOF, error) {
	var h sha3.ShakeHash
	var blockSize int

	switch name {
	case KMAC128:
		h = sha3.NewCShake128(kmacFunctionName, customization)
		blockSize = 168
	case KMAC256:
		h = sha3.NewCShake256(kmacFunctionName, customization)
		blockSize = 136
	default:
		return nil, fmt.Errorf("kmacxof: unrecognized primitive name %q", name)
	}

	return &XOF{h: h, blockSize: blockSize}, nil
}

// BlockSize returns the sponge's rate in bytes (168 for KMAC128, 136 for KMAC256).
func (x *XOF) BlockSize() int {
	return x.blockSize
}

// Absorb feeds data into the sponge. It must not be called after Squeeze.
func (x *XOF) Absorb(data []byte) {
	_, _ = x.h.Write(data)
}

// Squeeze draws len(out) bytes from the sponge, finalizing absorption on the first call.
func (x *XOF) Squeeze(out []byte) {
	_, _ = x.h.Read(out)
}

// Clone returns an independent copy of the XOF's current state. Mutations to the clone do not
// affect the receiver, and vice versa.
func (x *XOF) Clone() *XOF {
	return &XOF{h: x.h.Clone(), blockSize: x.blockSize}
}
