// Package identity derives content-addressed commit hashes.
//
// A commit hash covers the group, parent, message, timestamp and each
// document's id and payload. Vectors are left out, so two batches that differ
// only in their embeddings share document fingerprints and are told apart by
// the rest of the commit, in practice the millisecond timestamp.
package identity

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"sort"
	"strconv"

	"github.com/athaapa/clamp/internal/vectorstore"
)

// ShortLen is the number of hash characters shown to users.
const ShortLen = 8

// ComputeHash returns the 64-character hex SHA-256 identity of a commit.
//
// Documents are fingerprinted individually and the fingerprints sorted, so the
// result does not depend on document order. Vectors are not part of a
// document's fingerprint: re-embedding identical content keeps its identity.
func ComputeHash(group, parentHash, message string, docs []vectorstore.Document, timestamp int64) string {
	fingerprints := make([]string, len(docs))
	for i, doc := range docs {
		fingerprints[i] = Fingerprint(doc)
	}
	sort.Strings(fingerprints)

	h := sha256.New()
	writeField(h, "clamp-commit-v1")
	writeField(h, group)
	writeField(h, parentHash)
	writeField(h, message)
	writeField(h, strconv.FormatInt(timestamp, 10))
	writeField(h, strconv.Itoa(len(fingerprints)))
	for _, fp := range fingerprints {
		writeField(h, fp)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes a document's id and payload.
func Fingerprint(doc vectorstore.Document) string {
	h := sha256.New()
	writeField(h, doc.ID)
	writeField(h, canonical(doc.Payload))
	return hex.EncodeToString(h.Sum(nil))
}

// Short returns the abbreviated form of a hash.
func Short(hash string) string {
	if len(hash) > ShortLen {
		return hash[:ShortLen]
	}
	return hash
}

// canonical renders a payload with sorted keys. encoding/json already sorts
// map keys; values it cannot encode fall back to their fmt form.
func canonical(payload map[string]any) string {
	if len(payload) == 0 {
		return "{}"
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(b)
}

func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
