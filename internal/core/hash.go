package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Sentinel results returned by HashFile. Hashing is diagnostic, not
// safety-critical, so failures degrade to a readable marker instead of an
// error the caller has to handle.
const (
	HashNotFound  = "N/A - file not found"
	HashReadError = "N/A - read error"
)

// HashFile computes the hex-encoded SHA-256 digest of a file using streaming
// I/O with a fixed-size buffer, so multi-gigabyte backup images are never
// loaded into memory. It never fails: a missing path yields HashNotFound and
// any read failure yields HashReadError.
func HashFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return HashNotFound
		}
		return HashReadError
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, 64*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return HashReadError
	}
	return hex.EncodeToString(h.Sum(nil))
}
