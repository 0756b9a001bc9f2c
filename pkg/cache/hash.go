package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form "prefix:<sha256-hex>" from the JSON
// encoding of parts. The keyers call it with the full option set as parts, so
// any change to a layout tunable or the seed lands in a different key:
//
//	hashKey("layout", graphHash, opts)    → "layout:9f86d0..."
//	hashKey("artifact", layoutHash, opts) → "artifact:ca9781..."
//
// The full 256-bit digest is kept; layout keys must never collide, since a
// stale hit would silently return positions computed for a different graph.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the SHA-256 hex digest of data. It is the content hash for
// graph and layout documents: the pipeline hashes the marshaled graph to key
// layout results and the marshaled layout to key rendered artifacts.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
