package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
)

// readHexFile reads path and hex-decodes its trimmed contents. Used for key files and tag files,
// which are stored as a single hex line rather than raw binary, so they survive a text editor
// round-trip during manual testing.
func readHexFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("no file path given")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	trimmed := bytes.TrimSpace(raw)
	decoded, err := hex.DecodeString(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("decoding hex in %s: %w", path, err)
	}
	return decoded, nil
}

// writeHexFile writes the hex encoding of data to path, followed by a newline.
func writeHexFile(path string, data []byte) error {
	return os.WriteFile(path, append([]byte(hex.EncodeToString(data)), '\n'), 0o600)
}
