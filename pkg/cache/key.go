package cache

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// maxParamSegment bounds the readable part of a cache key. Longer canonical
// forms are replaced by their SHA-256 digest, which stays deterministic for
// identical inputs while keeping keys store-friendly.
const maxParamSegment = 128

// GenerateKey derives the cache key for one logical request. The same
// operation with the same parameters always yields the same key regardless
// of map insertion order.
func GenerateKey(operation string, params map[string]string) string {
	segment := canonicalize(params)
	if len(segment) > maxParamSegment {
		digest := sha256.Sum256([]byte(segment))
		segment = fmt.Sprintf("%x", digest)
	}
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, operation, segment)
}

// canonicalize renders params as "k=v" pairs sorted by key.
func canonicalize(params map[string]string) string {
	if len(params) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}
