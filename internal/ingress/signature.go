// Package ingress implements the Webhook Ingress pipeline from spec.md
// §4.D: signature verification, event-type gating, payload decode, routing
// lookup, subscription filtering, and bounded enqueue.
package ingress

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"strings"
)

const signaturePrefix = "sha256="

// VerifySignature checks sig (the raw X-Forge-Signature-256 header value,
// e.g. "sha256=<hex>") against an HMAC-SHA256 of body keyed by secret.
//
// The comparison is constant-time with respect to the position of the
// first differing byte (spec.md P5): the expected MAC is always computed
// in full, and crypto/subtle.ConstantTimeCompare is used in place of `==`
// or bytes.Equal, which both short-circuit on the first mismatch.
func VerifySignature(secret []byte, sig string, body []byte) bool {
	digest, ok := strings.CutPrefix(sig, signaturePrefix)
	if !ok {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	decoded := make([]byte, len(expected))
	n := decodeHex(decoded, digest)
	if n != len(expected) {
		return false
	}

	return subtle.ConstantTimeCompare(decoded, expected) == 1
}

// decodeHex decodes src as hex into dst, returning the number of bytes
// written. It returns 0 (a verification failure) on any malformed input
// rather than propagating an error, so callers have a single boolean gate.
func decodeHex(dst []byte, src string) int {
	if len(src) != len(dst)*2 {
		return 0
	}
	for i := range dst {
		hi, ok1 := hexVal(src[i*2])
		lo, ok2 := hexVal(src[i*2+1])
		if !ok1 || !ok2 {
			return 0
		}
		dst[i] = hi<<4 | lo
	}
	return len(dst)
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
