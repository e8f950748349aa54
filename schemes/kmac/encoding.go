package kmac

// This file implements the NIST SP 800-185 §2.3 encoding primitives that sit above the
// Keccak-XOF external collaborator: left_encode, right_encode, encode_string, and bytepad.
// These are the "hard parts" spec §4.4 calls out — the rest of the package wires them together.

// leftEncode returns n || minimal-big-endian(x), where n is the number of bytes in the
// big-endian representation (a single byte, since x never exceeds a few thousand here). For
// x == 0, it returns {0x01, 0x00}.
func leftEncode(x uint64) []byte {
	n := encodedSize(x)
	out := make([]byte, n+1)
	out[0] = byte(n)
	for i := n; i >= 1; i-- {
		out[i] = byte(x)
		x >>= 8
	}
	return out
}

// rightEncode returns minimal-big-endian(x) || n, the mirror image of leftEncode. For x == 0, it
// returns {0x00, 0x01}.
func rightEncode(x uint64) []byte {
	n := encodedSize(x)
	out := make([]byte, n+1)
	for i := n; i >= 1; i-- {
		out[i-1] = byte(x)
		x >>= 8
	}
	out[n] = byte(n)
	return out
}

// encodedSize returns the minimum number of bytes needed to hold x in big-endian form, treating
// 0 as requiring one byte.
func encodedSize(x uint64) int {
	n := 0
	for v := x; v != 0; v >>= 8 {
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// encodeString returns left_encode(8*len(s)) || s: an unambiguous, self-delimiting encoding of a
// bit string whose length is itself at most 255 bytes once encoded (s is bounded by callers to
// at most [MaxKeyLen] or [MaxCustomLen] bytes, so 8*len(s) always fits in two encoded bytes).
func encodeString(s []byte) []byte {
	out := leftEncode(8 * uint64(len(s)))
	return append(out, s...)
}

// bytepad returns left_encode(w) || x, zero-padded up to the smallest multiple of w that is no
// smaller than len(left_encode(w) || x).
func bytepad(x []byte, w int) []byte {
	prefix := leftEncode(uint64(w))
	total := len(prefix) + len(x)
	padded := (total + w - 1) / w * w
	out := make([]byte, padded)
	copy(out, prefix)
	copy(out[len(prefix):], x)
	return out
}
