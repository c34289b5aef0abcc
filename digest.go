package watermark

import "crypto/sha256"

// DigestLength is the length in bytes of a claim digest (SHA-224).
const DigestLength = 28

// Digest computes the SHA-224 digest of a claim text's UTF-8 encoding.
// It is deterministic in claim and is the sole payload embedded in an image;
// the claim text itself is never recoverable from the embedded mark.
func Digest(claim string) [DigestLength]byte {
	return sha256.Sum224([]byte(claim))
}
