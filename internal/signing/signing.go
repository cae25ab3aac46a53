// Package signing implements the sign and verify operations over envelopes.
//
// Both operations are pure: keys arrive already resolved and the envelope is
// returned to the caller for serialization.
package signing

import (
	"crypto/ed25519"
	"fmt"

	"github.com/d2verb/signit/internal/codec"
	"github.com/d2verb/signit/internal/envelope"
)

// Sign signs message with key and returns the resulting envelope.
// githubUser is copied into the envelope as-is; it is not checked against key.
func Sign(key ed25519.PrivateKey, message []byte, githubUser string) (*envelope.Envelope, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length %d", len(key))
	}

	text, err := codec.DecodeMessage(message)
	if err != nil {
		return nil, err
	}

	sig := ed25519.Sign(key, message)
	return &envelope.Envelope{
		Message:    text,
		Signature:  codec.EncodeSignature(sig),
		GitHubUser: githubUser,
	}, nil
}

// Result describes a successful verification.
type Result struct {
	// Index is the position of the matching key in the candidate set.
	Index int
	Key   ed25519.PublicKey
}

// Verify checks env against each candidate key in order and stops at the
// first key that validates the signature.
func Verify(env *envelope.Envelope, candidates []ed25519.PublicKey) (*Result, error) {
	sig, err := codec.DecodeSignature(env.Signature)
	if err != nil {
		return nil, err
	}

	idx, ok := FirstMatch(candidates, codec.EncodeMessage(env.Message), sig)
	if !ok {
		return nil, &RejectedError{Candidates: len(candidates)}
	}
	return &Result{Index: idx, Key: candidates[idx]}, nil
}

// FirstMatch returns the index of the first candidate that verifies sig over
// message. Candidates with an invalid length never match.
func FirstMatch(candidates []ed25519.PublicKey, message, sig []byte) (int, bool) {
	for i, key := range candidates {
		if len(key) != ed25519.PublicKeySize {
			continue
		}
		if ed25519.Verify(key, message, sig) {
			return i, true
		}
	}
	return -1, false
}
