// Package codec converts signatures and messages to and from their
// transport representations.
package codec

import (
	"crypto/ed25519"
	"encoding/base64"
	"unicode/utf8"
)

// EncodeSignature returns the standard base64 form of sig.
func EncodeSignature(sig []byte) string {
	return base64.StdEncoding.EncodeToString(sig)
}

// DecodeSignature decodes a base64 signature.
// The decoded value must be exactly ed25519.SignatureSize bytes.
func DecodeSignature(s string) ([]byte, error) {
	sig, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &EncodingError{Field: FieldSignature, Reason: "not valid base64", Err: err}
	}
	if len(sig) != ed25519.SignatureSize {
		return nil, &EncodingError{
			Field:  FieldSignature,
			Reason: lengthReason(len(sig)),
		}
	}
	return sig, nil
}

// EncodeMessage returns the bytes that are signed for msg.
func EncodeMessage(msg string) []byte {
	return []byte(msg)
}

// DecodeMessage converts raw message bytes into envelope text.
// The bytes must be valid UTF-8 so the envelope carries them unchanged.
func DecodeMessage(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", &EncodingError{Field: FieldMessage, Reason: "not valid UTF-8"}
	}
	return string(b), nil
}
