// Package cmacaes wraps AES-CMAC as the external MAC collaborator used by [schemes/siv]'s S2V
// construction.
//
// CMAC itself is out of scope for this repository: it is treated as an external primitive,
// named here the way OpenSSL's EVP_MAC dispatch names it — by the underlying cipher's name — and
// backed by [github.com/chmike/cmac-go].
package cmacaes

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"hash"

	"github.com/chmike/cmac-go"
)

// Size is the CMAC-AES output size in bytes: one AES block.
const Size = aes.BlockSize

// Recognized cipher names. The "-CBC" suffix is vestigial, inherited from OpenSSL's EVP_MAC
// dispatch (CMAC is keyed by naming a CBC cipher even though CMAC is not CBC mode); only the key
// length and block cipher matter to this construction.
const (
	AES128 = "AES-128-CBC"
	AES192 = "AES-192-CBC"
	AES256 = "AES-256-CBC"
)

// New creates a new CMAC-AES [hash.Hash] keyed with key, named by cipherName (one of AES128,
// AES192, AES256). cipherName must agree with len(key); it exists to mirror the named-collaborator
// contract in spec §6, not to select behavior independently of the key.
//
// Because the underlying library does not expose a clone operation on an already-keyed instance,
// callers that need the "clone of the pre-keyed MAC" behavior described in design note 9 should
// call New again with the same cipherName and key: the AES-CMAC subkey derivation (two block
// encryptions) is pure and deterministic, so a fresh instance is indistinguishable from a clone of
// one that has not yet had Write called on it.
func New(cipherName string, key []byte) (hash.Hash, error) {
	switch cipherName {
	case AES128, AES192, AES256:
	default:
		return nil, fmt.Errorf("cmacaes: unrecognized cipher name %q", cipherName)
	}

	h, err := cmac.New(func(k []byte) (cipher.Block, error) {
		return aes.NewCipher(k)
	}, key)
	if err != nil {
		return nil, fmt.Errorf("cmacaes: %w", err)
	}
	return h, nil
}
