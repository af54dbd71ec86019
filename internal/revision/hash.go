package revision

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"ifcaudit/internal/errors"
)

// Algorithm names a file digest.
type Algorithm string

const (
	SHA256     Algorithm = "sha256"
	MD5        Algorithm = "md5"
	SHA3_256   Algorithm = "sha3-256"
	BLAKE2b256 Algorithm = "blake2b-256"
)

// DefaultAlgorithm is used when none is configured.
const DefaultAlgorithm = SHA256

// Algorithms lists the supported digests.
var Algorithms = []Algorithm{SHA256, MD5, SHA3_256, BLAKE2b256}

// ParseAlgorithm accepts an algorithm name in any case. Empty means
// DefaultAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	if s == "" {
		return DefaultAlgorithm, nil
	}
	alg := Algorithm(strings.ToLower(s))
	for _, known := range Algorithms {
		if alg == known {
			return alg, nil
		}
	}
	return "", errors.Newf(errors.InvalidInput, "unknown hash algorithm %q", s)
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case MD5:
		return md5.New(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case BLAKE2b256:
		return blake2b.New256(nil)
	}
	return nil, errors.Newf(errors.InvalidInput, "unknown hash algorithm %q", string(a))
}

// HashFile returns the lowercase hex SHA-256 of data.
func HashFile(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Hasher digests raw file bytes. The digest covers the bytes exactly as
// stored, so re-saving a model changes it.
type Hasher struct {
	alg Algorithm
}

// NewHasher creates a Hasher for alg.
func NewHasher(alg Algorithm) (*Hasher, error) {
	if _, err := alg.newHash(); err != nil {
		return nil, err
	}
	return &Hasher{alg: alg}, nil
}

// Algorithm returns the digest name.
func (h *Hasher) Algorithm() Algorithm { return h.alg }

// Sum returns the lowercase hex digest of data.
func (h *Hasher) Sum(data []byte) string {
	d, _ := h.alg.newHash()
	d.Write(data)
	return hex.EncodeToString(d.Sum(nil))
}

// HashReader streams r through the digest.
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	d, err := h.alg.newHash()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(d, r); err != nil {
		return "", fmt.Errorf("failed to hash input: %w", err)
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// HashPath digests the file at path.
func (h *Hasher) HashPath(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.New(errors.ModelUnreadable, "cannot open file for hashing", err)
	}
	defer f.Close()
	return h.HashReader(f)
}
