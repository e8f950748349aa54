// Package kmac implements the KMAC128, KMAC256, and their XOF-mode variants, as specified in
// NIST SP 800-185.
//
// A KMAC context is set up once with a key and, optionally, a customization string, then fed
// data incrementally, then finalized to produce a MAC (or, in XOF mode, an arbitrary-length
// pseudorandom stream). The underlying Keccak-XOF sponge is an external collaborator (spec §1);
// see [github.com/bramblecrypto/daecore/hazmat/kmacxof].
package kmac

import (
	"errors"
	"fmt"

	"github.com/bramblecrypto/daecore/hazmat/kmacxof"
)

const (
	// MinKeyLen is the minimum accepted key length in bytes.
	MinKeyLen = 4
	// MaxKeyLen is the maximum accepted key length in bytes.
	MaxKeyLen = 255
	// MaxCustomLen is the maximum accepted customization-string length in bytes.
	MaxCustomLen = 127
)

// Sentinel errors. Wrapped with additional detail via fmt.Errorf("%w: ...") at the call site.
var (
	// ErrNoKey is returned by Init when no key has been set.
	ErrNoKey = errors.New("kmac: key must be set before Init")
	// ErrAlreadyInitialized is returned by SetKey/SetCustom once Init has run. The original
	// OpenSSL implementation silently ignores key/custom changes after init (spec §9); this
	// implementation treats it as a hard usage error instead.
	ErrAlreadyInitialized = errors.New("kmac: key or customization cannot be changed after Init")
	// ErrNotInitialized is returned by Update/Final before Init has run.
	ErrNotInitialized = errors.New("kmac: Init must be called first")
	// ErrAlreadyFinalized is returned by a second call to Final on the same context.
	ErrAlreadyFinalized = errors.New("kmac: Final already called")
	// ErrNotFinalized is returned by Squeeze before Final has run.
	ErrNotFinalized = errors.New("kmac: Final must be called before Squeeze")
	// ErrKeyLength is wrapped with the offending length when a key falls outside [MinKeyLen, MaxKeyLen].
	ErrKeyLength = errors.New("kmac: key length out of range")
	// ErrCustomLength is wrapped with the offending length when a customization string exceeds MaxCustomLen.
	ErrCustomLength = errors.New("kmac: customization string too long")
)

type variant struct {
	primitive     string
	blockSize     int
	defaultOutLen int
}

var (
	variant128 = variant{primitive: kmacxof.KMAC128, blockSize: 168, defaultOutLen: 32}
	variant256 = variant{primitive: kmacxof.KMAC256, blockSize: 136, defaultOutLen: 64}
)

type state int

const (
	stateFresh state = iota
	stateKeyed
	stateInitialized
)

// KMAC is an incremental KMAC128 or KMAC256 context. The zero value is not usable; construct one
// with [New128] or [New256].
type KMAC struct {
	v         variant
	st        state
	key       []byte
	custom    []byte
	outLen    int
	xof       bool
	finalized bool
	x         *kmacxof.XOF
}

// New128 returns a fresh KMAC128 context with the default 32-byte (256-bit) output length.
func New128() *KMAC {
	return &KMAC{v: variant128, outLen: variant128.defaultOutLen}
}

// New256 returns a fresh KMAC256 context with the default 64-byte (512-bit) output length.
func New256() *KMAC {
	return &KMAC{v: variant256, outLen: variant256.defaultOutLen}
}

// SetKey sets the context's key. key must be between MinKeyLen and MaxKeyLen bytes long. It is
// required before Init and, per spec §3, is rejected once Init has run.
func (k *KMAC) SetKey(key []byte) error {
	if k.st == stateInitialized {
		return ErrAlreadyInitialized
	}
	if len(key) < MinKeyLen || len(key) > MaxKeyLen {
		return fmt.Errorf("%w: got %d bytes, want [%d, %d]", ErrKeyLength, len(key), MinKeyLen, MaxKeyLen)
	}
	k.key = append(k.key[:0], key...)
	k.st = stateKeyed
	return nil
}

// SetCustom sets the context's customization string. custom may be empty (the default) and must
// be no more than MaxCustomLen bytes. It is rejected once Init has run.
func (k *KMAC) SetCustom(custom []byte) error {
	if k.st == stateInitialized {
		return ErrAlreadyInitialized
	}
	if len(custom) > MaxCustomLen {
		return fmt.Errorf("%w: got %d bytes, want <= %d", ErrCustomLength, len(custom), MaxCustomLen)
	}
	k.custom = append(k.custom[:0], custom...)
	return nil
}

// SetOutputLen sets the number of bytes Final will produce. It may be changed at any time before
// Final, matching the "outlen"/"size" parameters of spec §6, which remain settable post-Init.
func (k *KMAC) SetOutputLen(n int) error {
	if n < 0 {
		return fmt.Errorf("kmac: negative output length %d", n)
	}
	k.outLen = n
	return nil
}

// OutputLen returns the number of bytes Final will produce.
func (k *KMAC) OutputLen() int {
	return k.outLen
}

// SetXOF selects XOF mode: when true, Final encodes the requested length as right_encode(0)
// rather than right_encode(8*OutputLen()), per SP 800-185's KMACXOF definition. It may be
// changed at any time before Final.
func (k *KMAC) SetXOF(xof bool) {
	k.xof = xof
}

// Init binds the key and customization string to a fresh Keccak-XOF sponge, absorbing
// bytepad(encode_string("KMAC") || encode_string(custom), blockSize) (via the external
// collaborator, which performs this encoding internally for a non-empty function name) followed
// by bytepad(encode_string(key), blockSize) (computed here). It fails with ErrNoKey if no key has
// been set.
func (k *KMAC) Init() error {
	if len(k.key) == 0 {
		return ErrNoKey
	}

	x, err := kmacxof.New(k.v.primitive, k.custom)
	if err != nil {
		return fmt.Errorf("kmac: %w", err)
	}

	x.Absorb(bytepad(encodeString(k.key), k.v.blockSize))

	k.x = x
	k.st = stateInitialized
	return nil
}

// Update absorbs data into the sponge. It may be called any number of times after Init and
// before Final.
func (k *KMAC) Update(data []byte) error {
	if k.st != stateInitialized {
		return ErrNotInitialized
	}
	k.x.Absorb(data)
	return nil
}

// Final absorbs the output-length encoding and squeezes OutputLen() bytes, returning the MAC (or,
// in XOF mode, the first OutputLen() bytes of the output stream). A context may be Squeeze'd for
// additional output after Final, but Final itself may only be called once.
func (k *KMAC) Final() ([]byte, error) {
	if k.st != stateInitialized {
		return nil, ErrNotInitialized
	}
	if k.finalized {
		return nil, ErrAlreadyFinalized
	}

	var lengthBits uint64
	if !k.xof {
		lengthBits = uint64(k.outLen) * 8
	}
	k.x.Absorb(rightEncode(lengthBits))
	k.finalized = true

	out := make([]byte, k.outLen)
	k.x.Squeeze(out)
	return out, nil
}

// Squeeze draws n further bytes from the output stream established by Final. It is intended for
// XOF-mode contexts that want more output than OutputLen() bytes without re-deriving the MAC.
func (k *KMAC) Squeeze(n int) ([]byte, error) {
	if !k.finalized {
		return nil, ErrNotFinalized
	}
	out := make([]byte, n)
	k.x.Squeeze(out)
	return out, nil
}

// Clone returns a deep copy of the context. Mutations to the clone (Update, Final, Squeeze) do
// not affect the receiver, satisfying spec §4.6's duplication requirement; this is how a caller
// amortizes key/customization absorption across many messages sharing a prefix.
func (k *KMAC) Clone() *KMAC {
	clone := *k
	clone.key = append([]byte(nil), k.key...)
	clone.custom = append([]byte(nil), k.custom...)
	if k.x != nil {
		clone.x = k.x.Clone()
	}
	return &clone
}

// Zero clears the context's key and customization buffers. It does not invalidate the
// already-initialized sponge state, which holds no recoverable representation of the key.
func (k *KMAC) Zero() {
	clear(k.key)
	clear(k.custom)
}
