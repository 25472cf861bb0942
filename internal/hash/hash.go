package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/pkg/errors"
)

// File reads path and returns its contents along with their checksum.
func File(path string) ([]byte, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "unable to read file %s", path)
	}

	return b, Bytes(b), nil
}

// Bytes returns the hex sha256 of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
