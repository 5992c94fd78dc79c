package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// hashChunkSize bounds memory per file regardless of file size.
const hashChunkSize = 8 * 1024

// HashFile computes the SHA256 digest of a file's full content, streamed
// in fixed-size chunks. Partial or prefix hashing is deliberately not
// offered: duplicate grouping feeds deletion decisions, so two files are
// only considered identical when their entire content matches.
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(hash, struct{ io.Reader }{file}, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
