package siv_test

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/bramblecrypto/daecore/hazmat/cmacaes"
	"github.com/bramblecrypto/daecore/schemes/siv"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex literal: %v", err)
	}
	return b
}

// TestKAT_RFC5297_A1 reproduces RFC 5297 §A.1 exactly: a two-piece key, one AAD chunk, a
// 14-byte (short-path) plaintext.
func TestKAT_RFC5297_A1(t *testing.T) {
	key := mustHex(t, "7f7e7d7c7b7a79787776757473727170404142434445464748494a4b4c4d4e4f")
	aad := mustHex(t, "101112131415161718191a1b1c1d1e1f2021222324252627")
	plaintext := mustHex(t, "112233445566778899aabbccddee")
	wantTag := mustHex(t, "85632d07c6e8f37f950acd320a2ecc93")
	wantCiphertext := mustHex(t, "40c02b9690c4dc04daef7f6afe5c")

	ctx, err := siv.New(key, cmacaes.AES128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ctx.AAD(aad); err != nil {
		t.Fatalf("AAD: %v", err)
	}
	ciphertext, tag, err := ctx.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !bytes.Equal(tag, wantTag) {
		t.Errorf("tag = %x, want %x", tag, wantTag)
	}
	if !bytes.Equal(ciphertext, wantCiphertext) {
		t.Errorf("ciphertext = %x, want %x", ciphertext, wantCiphertext)
	}

	// Round-trip on a fresh context (Open consumes a Context just like Seal does).
	open, err := siv.New(key, cmacaes.AES128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := open.AAD(aad); err != nil {
		t.Fatalf("AAD: %v", err)
	}
	got, err := open.Open(ciphertext, tag)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Open = %x, want %x", got, plaintext)
	}
}

// TestRoundTrip_EmptyPlaintextEmptyAAD covers spec §8 vector 2: a zero key, no AAD, empty
// plaintext.
func TestRoundTrip_EmptyPlaintextEmptyAAD(t *testing.T) {
	key := make([]byte, 32)

	seal, err := siv.New(key, cmacaes.AES128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ciphertext, tag, err := seal.Seal(nil)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(ciphertext) != 0 {
		t.Errorf("ciphertext = %x, want empty", ciphertext)
	}
	if len(tag) != siv.Size {
		t.Errorf("len(tag) = %d, want %d", len(tag), siv.Size)
	}

	open, err := siv.New(key, cmacaes.AES128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := open.Open(ciphertext, tag)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Open = %x, want empty", got)
	}
}

// TestRoundTrip_PlaintextLengths sweeps both sides of the 16-byte S2V branch (spec §8: lengths
// 0, 1, 15, 16, 17, 31, 32, 33, 1024) and confirms the short-path tag differs from the long-path
// tag for otherwise-identical prefixes (spec §8 vector 6).
func TestRoundTrip_PlaintextLengths(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	aad := []byte("associated data")

	var shortTag, longTag []byte
	for _, n := range []int{0, 1, 15, 16, 17, 31, 32, 33, 1024} {
		plaintext := bytes.Repeat([]byte{0x42}, n)

		seal, err := siv.New(key, cmacaes.AES256)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := seal.AAD(aad); err != nil {
			t.Fatalf("AAD: %v", err)
		}
		ciphertext, tag, err := seal.Seal(plaintext)
		if err != nil {
			t.Fatalf("len %d: Seal: %v", n, err)
		}

		open, err := siv.New(key, cmacaes.AES256)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := open.AAD(aad); err != nil {
			t.Fatalf("AAD: %v", err)
		}
		got, err := open.Open(ciphertext, tag)
		if err != nil {
			t.Fatalf("len %d: Open: %v", n, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("len %d: round-trip mismatch: got %x, want %x", n, got, plaintext)
		}

		if n == 15 {
			shortTag = tag
		}
		if n == 16 {
			longTag = tag
		}
	}
	if bytes.Equal(shortTag, longTag) {
		t.Error("15-byte (short-path) and 16-byte (long-path) plaintexts produced the same tag")
	}
}

func testKeyAndAAD() ([]byte, []byte) {
	key := bytes.Repeat([]byte{0x11}, 32)
	return key, []byte("aad-chunk")
}

// TestTampering_Ciphertext flips a bit in the ciphertext and checks Open fails and zeroizes.
func TestTampering_Ciphertext(t *testing.T) {
	key, aad := testKeyAndAAD()
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	seal, _ := siv.New(key, cmacaes.AES128)
	_ = seal.AAD(aad)
	ciphertext, tag, err := seal.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	tampered := append([]byte(nil), ciphertext...)
	tampered[0] ^= 0x01

	open, _ := siv.New(key, cmacaes.AES128)
	_ = open.AAD(aad)
	got, err := open.Open(tampered, tag)
	if err != siv.ErrAuthFailed {
		t.Fatalf("Open(tampered) = %v, want %v", err, siv.ErrAuthFailed)
	}
	for _, b := range got {
		if b != 0 {
			t.Fatalf("plaintext buffer not zeroized on auth failure: %x", got)
		}
	}
}

// TestTampering_Tag flips a bit in the tag.
func TestTampering_Tag(t *testing.T) {
	key, aad := testKeyAndAAD()
	plaintext := []byte("payload")

	seal, _ := siv.New(key, cmacaes.AES128)
	_ = seal.AAD(aad)
	ciphertext, tag, _ := seal.Seal(plaintext)

	tampered := append([]byte(nil), tag...)
	tampered[len(tampered)-1] ^= 0x01

	open, _ := siv.New(key, cmacaes.AES128)
	_ = open.AAD(aad)
	if _, err := open.Open(ciphertext, tampered); err != siv.ErrAuthFailed {
		t.Errorf("Open(tampered tag) = %v, want %v", err, siv.ErrAuthFailed)
	}
}

// TestAADOrderSensitivity confirms swapping two distinct AAD chunks changes the tag.
func TestAADOrderSensitivity(t *testing.T) {
	key, _ := testKeyAndAAD()
	a, b := []byte("chunk-a"), []byte("chunk-b")
	plaintext := []byte("message")

	s1, _ := siv.New(key, cmacaes.AES128)
	_ = s1.AAD(a)
	_ = s1.AAD(b)
	_, tag1, err := s1.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	s2, _ := siv.New(key, cmacaes.AES128)
	_ = s2.AAD(b)
	_ = s2.AAD(a)
	_, tag2, err := s2.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	if bytes.Equal(tag1, tag2) {
		t.Error("swapping AAD chunk order did not change the tag")
	}
}

// TestAADTampering confirms a changed AAD chunk invalidates the tag on Open.
func TestAADTampering(t *testing.T) {
	key, _ := testKeyAndAAD()
	plaintext := []byte("message")

	seal, _ := siv.New(key, cmacaes.AES128)
	_ = seal.AAD([]byte("original aad"))
	ciphertext, tag, _ := seal.Seal(plaintext)

	open, _ := siv.New(key, cmacaes.AES128)
	_ = open.AAD([]byte("different aad"))
	if _, err := open.Open(ciphertext, tag); err != siv.ErrAuthFailed {
		t.Errorf("Open with different AAD = %v, want %v", err, siv.ErrAuthFailed)
	}
}

// TestOneShot_Seal confirms a second Seal on the same context is rejected.
func TestOneShot_Seal(t *testing.T) {
	key, _ := testKeyAndAAD()
	ctx, _ := siv.New(key, cmacaes.AES128)
	if _, _, err := ctx.Seal([]byte("first")); err != nil {
		t.Fatalf("first Seal: %v", err)
	}
	ciphertext, tag, err := ctx.Seal([]byte("second"))
	if err != siv.ErrOneShot {
		t.Errorf("second Seal = %v, want %v", err, siv.ErrOneShot)
	}
	if ciphertext != nil || tag != nil {
		t.Error("second Seal must not touch output buffers")
	}
}

// TestOneShot_Open confirms a second Open on the same context is rejected.
func TestOneShot_Open(t *testing.T) {
	key, _ := testKeyAndAAD()
	seal, _ := siv.New(key, cmacaes.AES128)
	ciphertext, tag, _ := seal.Seal([]byte("message"))

	ctx, _ := siv.New(key, cmacaes.AES128)
	if _, err := ctx.Open(ciphertext, tag); err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := ctx.Open(ciphertext, tag); err != siv.ErrOneShot {
		t.Errorf("second Open = %v, want %v", err, siv.ErrOneShot)
	}
}

// TestOpen_RejectsWrongTagLength confirms the ParameterOutOfRange guard on tag length.
func TestOpen_RejectsWrongTagLength(t *testing.T) {
	key, _ := testKeyAndAAD()
	ctx, _ := siv.New(key, cmacaes.AES128)
	if _, err := ctx.Open([]byte("anything"), []byte("short")); err == nil {
		t.Error("Open with a 5-byte tag = nil, want error")
	}
}

// TestNew_RejectsBadKeyLengths confirms odd and unsupported-half key lengths are rejected.
func TestNew_RejectsBadKeyLengths(t *testing.T) {
	for _, n := range []int{0, 1, 31, 33, 47, 63, 65} {
		if _, err := siv.New(make([]byte, n), cmacaes.AES128); err == nil {
			t.Errorf("New(%d bytes) = nil, want error", n)
		}
	}
	for _, n := range []int{32, 48, 64} {
		if _, err := siv.New(make([]byte, n), cmacaes.AES128); err != nil {
			t.Errorf("New(%d bytes) = %v, want nil", n, err)
		}
	}
}

// TestZero confirms Zero clears the externally observable Tag(). The key and accumulator buffers
// are private to the package; see zero_test.go (package siv) for those.
func TestZero(t *testing.T) {
	key, aad := testKeyAndAAD()
	ctx, _ := siv.New(key, cmacaes.AES128)
	_ = ctx.AAD(aad)
	_, _, _ = ctx.Seal([]byte("message"))

	ctx.Zero()
	tag := ctx.Tag()
	for _, b := range tag {
		if b != 0 {
			t.Errorf("Tag() after Zero = %x, want all zero", tag)
			break
		}
	}
}
