// Package siv implements AES-SIV (Synthetic Initialization Vector) authenticated encryption as
// specified in RFC 5297, for the 128-bit block case.
//
// A Context is keyed once with a 2k-byte key (K1 ‖ K2: the first half MACs, the second half
// encrypts), fed zero or more AAD chunks, then consumed exactly once by Seal or Open. SIV has no
// streaming encryption interface by construction (the S2V tag folds the plaintext's last block
// against the accumulated AAD state before anything can be encrypted), so a Context is single-use:
// a second Seal or Open on the same Context returns ErrOneShot. CMAC-AES and AES-CTR are external
// collaborators; see [github.com/bramblecrypto/daecore/hazmat/cmacaes] and
// [github.com/bramblecrypto/daecore/hazmat/ctraes].
package siv

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/bramblecrypto/daecore/hazmat/cmacaes"
	"github.com/bramblecrypto/daecore/hazmat/ctraes"
	"github.com/bramblecrypto/daecore/internal/mem"
)

// Size is the length in bytes of a synthetic IV / authentication tag.
const Size = 16

// Sentinel errors. Wrapped with additional detail via fmt.Errorf("%w: ...") at the call site.
var (
	// ErrOneShot is returned by a second Seal or Open call on the same Context.
	ErrOneShot = errors.New("siv: context already consumed by Seal or Open")
	// ErrAuthFailed is returned by Open when the recomputed synthetic IV does not match the
	// supplied tag. The caller's plaintext buffer has already been zeroized when this is returned.
	ErrAuthFailed = errors.New("siv: authentication failed")
	// ErrKeyLength is returned by New when the combined key is not an even, supported length.
	ErrKeyLength = errors.New("siv: invalid key length")
	// ErrTagLength is returned by Open when the supplied tag is not Size bytes long.
	ErrTagLength = errors.New("siv: invalid tag length")
)

// Context is a keyed, at-most-once-use AES-SIV encryption context. The zero value is not usable;
// construct one with [New].
type Context struct {
	cipherName string
	k1         []byte
	ctr        *ctraes.Cipher

	d [Size]byte

	tag      [Size]byte
	usedOnce bool
}

// New creates a Context from a combined key. key must be 32, 48, or 64 bytes long (twice an
// AES-128/192/256 key); the first half (K1) keys CMAC, the second half (K2) keys CTR. cipherName
// selects the CMAC cipher (one of [github.com/bramblecrypto/daecore/hazmat/cmacaes]'s AES128,
// AES192, AES256 constants) and must agree with len(key)/2.
func New(key []byte, cipherName string) (*Context, error) {
	if len(key)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not even", ErrKeyLength, len(key))
	}
	half := len(key) / 2
	switch half {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: half-key length %d unsupported", ErrKeyLength, half)
	}

	k1 := append([]byte(nil), key[:half]...)
	k2 := key[half:]

	ctr, err := ctraes.New(k2)
	if err != nil {
		return nil, fmt.Errorf("siv: %w", err)
	}

	c := &Context{cipherName: cipherName, k1: k1, ctr: ctr}

	d, err := macOneShot(cipherName, k1, zeroBlock[:])
	if err != nil {
		return nil, fmt.Errorf("siv: %w", err)
	}
	c.d = d
	return c, nil
}

var zeroBlock [Size]byte

// macOneShot runs CMAC-AES(k1) over parts, concatenated, returning the 16-byte tag. Each call
// re-derives the keyed MAC state via a fresh cmacaes.New rather than cloning a shared instance;
// see cmacaes.New's doc comment for why that is equivalent to cloning a never-Written context.
//
// The underlying collaborator finalizes its internal state on every Write call rather than
// deferring finalization to Sum, so parts must be concatenated into a single buffer and written
// exactly once: two separate Write calls would apply the CMAC subkey (K1/K2) padding step twice,
// against the wrong tail, corrupting the result.
func macOneShot(cipherName string, k1 []byte, parts ...[]byte) ([Size]byte, error) {
	var out [Size]byte
	h, err := cmacaes.New(cipherName, k1)
	if err != nil {
		return out, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	for _, p := range parts {
		buf = append(buf, p...)
	}

	if _, err := h.Write(buf); err != nil {
		return out, fmt.Errorf("cmac write: %w", err)
	}
	copy(out[:], h.Sum(nil))
	return out, nil
}

// dbl multiplies b by the generator of GF(2^128) modulo x^128 + x^7 + x^2 + x + 1, treating b as
// a big-endian field element, per RFC 5297 §2.3. The carry-out of the shift is folded into the
// low byte via a constant-time mask rather than a branch, per spec §4.1.
func dbl(b [Size]byte) [Size]byte {
	var out [Size]byte
	var carry byte
	for i := Size - 1; i >= 0; i-- {
		cur := b[i]
		out[i] = cur<<1 | carry
		carry = cur >> 7
	}
	// carry now holds the bit shifted out of the most significant byte, as 0x01 or 0x00.
	mask := -carry // 0xFF if carry == 1, else 0x00
	out[Size-1] ^= 0x87 & mask
	return out
}

// xorInto XORs src into dst in place; both must be Size bytes.
func xorInto(dst *[Size]byte, src [Size]byte) {
	mem.XORInPlace(dst[:], src[:])
}

// AAD folds one associated-data chunk into the running S2V accumulator: D ← dbl(D) ⊕ CMAC(K1, A).
// It may be called any number of times, including zero, before Seal or Open. Per RFC 5297, a
// per-message nonce, if used, is simply the last AAD chunk fed here; this layer does not treat it
// specially.
func (c *Context) AAD(a []byte) error {
	t, err := macOneShot(c.cipherName, c.k1, a)
	if err != nil {
		return fmt.Errorf("siv: %w", err)
	}
	c.d = dbl(c.d)
	xorInto(&c.d, t)
	return nil
}

// pad10Star returns a Size-byte block holding p followed by a single 0x80 byte and zero padding.
// len(p) must be less than Size.
func pad10Star(p []byte) [Size]byte {
	var t [Size]byte
	copy(t[:], p)
	t[len(p)] = 0x80
	return t
}

// s2vFinal computes the synthetic IV for plaintext p against the accumulator built by prior AAD
// calls, without mutating the receiver's D. The original OpenSSL implementation doubles D in place
// for the short-plaintext branch (observable only if a context's AAD were called again
// afterward); SPEC_FULL §9 resolves that open question in favor of working on a local copy
// instead, since SIV contexts are one-shot regardless and this is strictly safer.
func (c *Context) s2vFinal(p []byte) ([Size]byte, error) {
	d := c.d

	if len(p) >= Size {
		head := p[:len(p)-Size]
		var last [Size]byte
		copy(last[:], p[len(p)-Size:])
		xorInto(&last, d)
		return macOneShot(c.cipherName, c.k1, head, last[:])
	}

	t := pad10Star(p)
	d = dbl(d)
	xorInto(&t, d)
	return macOneShot(c.cipherName, c.k1, t[:])
}

// counterBlock clears the two top bits RFC 5297 §2.6 reserves to prevent carry propagation
// between the two "never increment across a block boundary" 63-bit counter halves.
func counterBlock(tag [Size]byte) [Size]byte {
	q := tag
	q[8] &= 0x7f
	q[12] &= 0x7f
	return q
}

// Seal computes the synthetic IV tag for plaintext and AES-CTR-encrypts it under that tag as the
// initial counter block, returning the ciphertext and the 16-byte tag. It consumes the Context:
// a second call to Seal or Open returns ErrOneShot.
func (c *Context) Seal(plaintext []byte) (ciphertext, tag []byte, err error) {
	if c.usedOnce {
		return nil, nil, ErrOneShot
	}
	c.usedOnce = true

	t, err := c.s2vFinal(plaintext)
	if err != nil {
		return nil, nil, err
	}
	c.tag = t

	q := counterBlock(t)
	out := make([]byte, len(plaintext))
	if err := c.ctr.XORKeyStream(out, plaintext, q[:]); err != nil {
		return nil, nil, fmt.Errorf("siv: %w", err)
	}
	return out, t[:], nil
}

// Open decrypts ciphertext under tag and verifies it against the recomputed synthetic IV,
// returning the plaintext. If the tag does not match, the decrypted buffer is zeroized and
// ErrAuthFailed is returned. It consumes the Context: a second call to Seal or Open returns
// ErrOneShot without touching ciphertext.
func (c *Context) Open(ciphertext, tag []byte) ([]byte, error) {
	if c.usedOnce {
		return nil, ErrOneShot
	}
	if len(tag) != Size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrTagLength, len(tag), Size)
	}
	c.usedOnce = true

	var expected [Size]byte
	copy(expected[:], tag)

	q := counterBlock(expected)
	out := make([]byte, len(ciphertext))
	if err := c.ctr.XORKeyStream(out, ciphertext, q[:]); err != nil {
		return nil, fmt.Errorf("siv: %w", err)
	}

	v, err := c.s2vFinal(out)
	if err != nil {
		clear(out)
		return nil, err
	}

	if subtle.ConstantTimeCompare(v[:], expected[:]) != 1 {
		clear(out)
		return nil, ErrAuthFailed
	}
	c.tag = v
	return out, nil
}

// Tag returns the 16-byte synthetic IV produced by the last Seal, or verified by the last
// successful Open. It is the zero value before either has run.
func (c *Context) Tag() [Size]byte {
	return c.tag
}

// Zero clears the context's key material and accumulated state: k1, D, and the tag. It does not
// reach the AES key schedule inside the CTR cipher: crypto/aes.Cipher exposes no way to wipe its
// expanded round keys, and those typically do let an attacker who can read that memory recover
// K2. Zero is therefore a partial mitigation, not a complete one; see DESIGN.md.
func (c *Context) Zero() {
	clear(c.k1)
	clear(c.d[:])
	clear(c.tag[:])
}
