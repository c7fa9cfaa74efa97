package qrproof

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"unicode/utf16"
)

// hmacSignature signs the serialized payload with HMAC-SHA256. All newly
// issued tokens carry this signature.
func hmacSignature(data string, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// legacySignature reproduces the checksum that version 1.0 tokens were
// issued with: a rolling 32-bit hash over the UTF-16 code units of the
// serialized payload concatenated with the secret, rendered as the absolute
// value in hex. Kept only so tickets issued before the HMAC switch still
// verify; it is not a MAC and must never sign new tokens.
func legacySignature(data string, secret string) string {
	var h int32
	for _, cu := range utf16.Encode([]rune(data + secret)) {
		h = (h << 5) - h + int32(cu)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}
