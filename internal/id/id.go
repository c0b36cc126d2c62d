// Package id generates the prefixed identifiers used as primary keys.
package id

import (
	"crypto/rand"
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/oklog/ulid/v2"
)

// Prefixes of entity identifiers.
const (
	PrefixUser        = "usr"
	PrefixAccount     = "acc"
	PrefixQuestion    = "q"
	PrefixTag         = "tag"
	PrefixQuestionTag = "qt"
	PrefixAnswer      = "ans"
	PrefixVote        = "vote"
	PrefixCollection  = "col"
)

// Generate creates a prefixed unique ID, e.g. "q-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// Ordered creates a prefixed ULID. Ordered IDs generated by one process sort
// in creation order, which is used for rows whose insertion order matters.
func Ordered(prefix string) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return prefix + "-" + ulid.MustNew(ulid.Now(), entropy).String()
}
