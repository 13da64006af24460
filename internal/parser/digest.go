package parser

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the hex-encoded BLAKE2b-256 hash of the file at path.
// The history database uses it to tell re-runs of an unchanged report apart
// from new builds.
func Digest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Report path is user-provided by design
	if err != nil {
		return "", fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash report: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
