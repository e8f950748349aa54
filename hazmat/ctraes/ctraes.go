// Package ctraes wraps AES in CTR mode as the external block-cipher collaborator used by
// [schemes/siv] to turn a synthetic IV into a keystream.
//
// AES itself is out of scope for this repository: it is treated as an external primitive with
// the contract described below, backed here by the standard library's constant-time AES
// implementation.
package ctraes

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// BlockSize is the AES block size in bytes, and therefore the required length of any IV passed
// to [Cipher.XORKeyStream].
const BlockSize = aes.BlockSize

// Cipher is an AES key schedule bound to CTR mode. A Cipher is reusable across many IVs but is
// not safe for concurrent use.
type Cipher struct {
	block cipher.Block
}

// New creates a Cipher from an AES key. The key must be 16, 24, or 32 bytes long (AES-128,
// AES-192, or AES-256).
func New(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("ctraes: %w", err)
	}
	return &Cipher{block: block}, nil
}

// XORKeyStream seeds CTR mode with iv (which must be BlockSize bytes) and XORs len(src) bytes of
// keystream into dst, writing the result to dst. dst and src may overlap exactly.
func (c *Cipher) XORKeyStream(dst, src []byte, iv []byte) error {
	if len(iv) != BlockSize {
		return fmt.Errorf("ctraes: invalid IV length %d, want %d", len(iv), BlockSize)
	}
	if len(dst) < len(src) {
		return fmt.Errorf("ctraes: dst shorter than src")
	}
	stream := cipher.NewCTR(c.block, iv)
	stream.XORKeyStream(dst, src)
	return nil
}
