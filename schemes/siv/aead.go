package siv

import (
	"crypto/cipher"
	"fmt"
)

// AEAD wraps a keyed AES-SIV configuration as a reusable [cipher.AEAD]. Unlike [Context], which
// is consumed after a single Seal or Open, an AEAD may be used for any number of independent
// messages: each call builds a fresh one-shot Context from the stored key and feeds the nonce as
// the final AAD chunk, which RFC 5297 treats as ordinary associated data (see [Context.AAD]).
type AEAD struct {
	key        []byte
	cipherName string
	nonceSize  int
}

// NewAEAD returns an [AEAD] keyed with key (see [New] for the accepted lengths and cipherName),
// accepting nonces of nonceSize bytes. It panics if nonceSize is negative: unlike a bad key
// length, which is a normal setup error, a negative nonce size is a programming mistake with no
// sensible recovery, matching the panic-on-misuse convention the wrapped cipher.AEAD interface
// already establishes for bad nonce lengths at Seal/Open time.
func NewAEAD(key []byte, cipherName string, nonceSize int) (cipher.AEAD, error) {
	if nonceSize < 0 {
		panic("siv: nonce size must not be negative")
	}
	// Validate the key/cipherName pair eagerly so construction errors surface at NewAEAD rather
	// than on the first Seal.
	if _, err := New(key, cipherName); err != nil {
		return nil, err
	}
	return &AEAD{key: append([]byte(nil), key...), cipherName: cipherName, nonceSize: nonceSize}, nil
}

func (a *AEAD) NonceSize() int { return a.nonceSize }

func (a *AEAD) Overhead() int { return Size }

// Seal encrypts and authenticates plaintext, authenticates additionalData, and appends the
// result to dst, returning the updated slice. The synthetic IV tag is appended after the
// ciphertext, matching the conventional cipher.AEAD wire layout.
//
// Panics if len(nonce) != a.NonceSize(), matching cipher.AEAD's documented contract.
func (a *AEAD) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != a.nonceSize {
		panic("siv: invalid nonce size")
	}

	ctx, err := New(a.key, a.cipherName)
	if err != nil {
		panic(fmt.Sprintf("siv: %v", err))
	}
	if len(additionalData) > 0 {
		if err := ctx.AAD(additionalData); err != nil {
			panic(fmt.Sprintf("siv: %v", err))
		}
	}
	if err := ctx.AAD(nonce); err != nil {
		panic(fmt.Sprintf("siv: %v", err))
	}

	ciphertext, tag, err := ctx.Seal(plaintext)
	if err != nil {
		panic(fmt.Sprintf("siv: %v", err))
	}

	ret := append(dst, ciphertext...)
	return append(ret, tag...)
}

// Open decrypts and authenticates ciphertext, authenticates additionalData, and if successful
// appends the resulting plaintext to dst, returning the updated slice.
//
// Panics if len(nonce) != a.NonceSize(), matching cipher.AEAD's documented contract.
func (a *AEAD) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != a.nonceSize {
		panic("siv: invalid nonce size")
	}
	if len(ciphertext) < Size {
		return nil, ErrTagLength
	}

	body, tag := ciphertext[:len(ciphertext)-Size], ciphertext[len(ciphertext)-Size:]

	ctx, err := New(a.key, a.cipherName)
	if err != nil {
		return nil, err
	}
	if len(additionalData) > 0 {
		if err := ctx.AAD(additionalData); err != nil {
			return nil, err
		}
	}
	if err := ctx.AAD(nonce); err != nil {
		return nil, err
	}

	plaintext, err := ctx.Open(body, tag)
	if err != nil {
		return nil, err
	}

	return append(dst, plaintext...), nil
}

var _ cipher.AEAD = (*AEAD)(nil)
