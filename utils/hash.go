package utils

import "hash/fnv"

// FingerprintString returns a stable FNV-1a fingerprint of s. Used as the
// cache key for parsed connection URIs.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
