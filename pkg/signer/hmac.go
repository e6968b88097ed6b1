package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"hash"
)

// Fingerprinter derives stable opaque bucket keys from caller attributes.
// Implementations must be safe for concurrent use.
type Fingerprinter interface {
	Fingerprint(s string) string
}

// HMAC implements Fingerprinter using HMAC-SHA256, truncated and encoded as
// base64 URL without padding. Keyed hashing keeps raw client addresses out
// of the counter keyspace while staying stable per caller.
type HMAC struct {
	key []byte
	h   func() hash.Hash
}

// NewHMAC creates an HMAC fingerprinter with the provided secret key.
func NewHMAC(key []byte) *HMAC {
	return &HMAC{key: append([]byte(nil), key...), h: sha256.New}
}

func (c *HMAC) Fingerprint(s string) string {
	mac := hmac.New(c.h, c.key)
	mac.Write([]byte(s))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
}
