package signing

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/d2verb/signit/internal/codec"
	"github.com/d2verb/signit/internal/envelope"
)

// testKey returns a deterministic key derived from a one-byte seed pattern.
func testKey(b byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{b}, ed25519.SeedSize))
}

func publicOf(k ed25519.PrivateKey) ed25519.PublicKey {
	return k.Public().(ed25519.PublicKey)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	messages := []string{"", "Hello, world", "multi\nline\n", "unicode ☃ ✓", "{\"json\": true}"}
	key := testKey(0x42)

	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			// Act
			env, err := Sign(key, []byte(msg), "")
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}
			res, err := Verify(env, []ed25519.PublicKey{publicOf(key)})

			// Assert
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if res.Index != 0 {
				t.Errorf("Index = %d, want 0", res.Index)
			}
			if env.Message != msg {
				t.Errorf("Message = %q, want %q", env.Message, msg)
			}
		})
	}
}

func TestSignKnownAnswer(t *testing.T) {
	// RFC 8032 section 7.1, test 1.
	seed, _ := hex.DecodeString("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	want, _ := hex.DecodeString("e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b")

	// Act
	env, err := Sign(ed25519.NewKeyFromSeed(seed), nil, "")

	// Assert
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if env.Signature != base64.StdEncoding.EncodeToString(want) {
		t.Errorf("Signature = %s, want %x", env.Signature, want)
	}
}

func TestSignDeterministic(t *testing.T) {
	// Arrange
	key := testKey(0x07)
	msg := []byte("Hello, world")

	// Act
	first, err := Sign(key, msg, "octocat")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	second, err := Sign(key, msg, "octocat")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	// Assert
	if *first != *second {
		t.Errorf("Sign() not deterministic: %+v vs %+v", *first, *second)
	}
	sig, err := codec.DecodeSignature(first.Signature)
	if err != nil {
		t.Fatalf("DecodeSignature() error = %v", err)
	}
	if len(sig) != ed25519.SignatureSize {
		t.Errorf("signature length = %d, want %d", len(sig), ed25519.SignatureSize)
	}
	if first.GitHubUser != "octocat" {
		t.Errorf("GitHubUser = %q, want octocat", first.GitHubUser)
	}
}

func TestSignRejectsInvalidInput(t *testing.T) {
	t.Run("short key", func(t *testing.T) {
		_, err := Sign(ed25519.PrivateKey(make([]byte, 10)), []byte("m"), "")
		if err == nil {
			t.Error("Sign() should fail with short key")
		}
	})

	t.Run("invalid utf8", func(t *testing.T) {
		_, err := Sign(testKey(1), []byte{0xc3, 0x28}, "")
		if !codec.IsEncodingError(err) {
			t.Errorf("Sign() error = %v, want EncodingError", err)
		}
	})
}

func TestVerifyTamperedMessage(t *testing.T) {
	// Arrange
	key := testKey(0x11)
	env, err := Sign(key, []byte("Hello, world"), "")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	candidates := []ed25519.PublicKey{publicOf(key)}

	for i := 0; i < len(env.Message); i++ {
		tampered := []byte(env.Message)
		tampered[i] ^= 0x01

		// Act
		_, err := Verify(&envelope.Envelope{Message: string(tampered), Signature: env.Signature}, candidates)

		// Assert
		if !IsRejected(err) {
			t.Errorf("byte %d: Verify() error = %v, want RejectedError", i, err)
		}
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	// Arrange
	key := testKey(0x12)
	env, err := Sign(key, []byte("Hello, world"), "")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	sig, err := codec.DecodeSignature(env.Signature)
	if err != nil {
		t.Fatalf("DecodeSignature() error = %v", err)
	}
	candidates := []ed25519.PublicKey{publicOf(key)}

	for i := range sig {
		tampered := bytes.Clone(sig)
		tampered[i] ^= 0x80

		// Act
		_, err := Verify(&envelope.Envelope{Message: env.Message, Signature: codec.EncodeSignature(tampered)}, candidates)

		// Assert
		if !IsRejected(err) {
			t.Errorf("byte %d: Verify() error = %v, want RejectedError", i, err)
		}
	}
}

func TestVerifyCandidatePosition(t *testing.T) {
	// Arrange
	signer := testKey(0x20)
	env, err := Sign(signer, []byte("position"), "")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	others := []ed25519.PublicKey{publicOf(testKey(0x21)), publicOf(testKey(0x22)), publicOf(testKey(0x23))}

	for pos := 0; pos <= len(others); pos++ {
		candidates := make([]ed25519.PublicKey, 0, len(others)+1)
		candidates = append(candidates, others[:pos]...)
		candidates = append(candidates, publicOf(signer))
		candidates = append(candidates, others[pos:]...)

		// Act
		res, err := Verify(env, candidates)

		// Assert
		if err != nil {
			t.Fatalf("pos %d: Verify() error = %v", pos, err)
		}
		if res.Index != pos {
			t.Errorf("Index = %d, want %d", res.Index, pos)
		}
		if !res.Key.Equal(publicOf(signer)) {
			t.Errorf("pos %d: Key does not match signer", pos)
		}
	}
}

func TestVerifyRejected(t *testing.T) {
	tests := []struct {
		name       string
		candidates []ed25519.PublicKey
	}{
		{"no candidates", nil},
		{"wrong key", []ed25519.PublicKey{publicOf(testKey(0x31))}},
		{"truncated key", []ed25519.PublicKey{publicOf(testKey(0x30))[:16]}},
	}

	env, err := Sign(testKey(0x30), []byte("reject me"), "")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			res, err := Verify(env, tt.candidates)

			// Assert
			if res != nil {
				t.Errorf("Verify() result = %+v, want nil", res)
			}
			if !IsRejected(err) {
				t.Errorf("Verify() error = %v, want RejectedError", err)
			}
			if err != nil && err.Error() != "verification failed" {
				t.Errorf("Error() = %q, want generic message", err.Error())
			}
		})
	}
}

func TestVerifyBadSignatureEncoding(t *testing.T) {
	// Arrange
	env := &envelope.Envelope{Message: "m", Signature: "not base64!"}

	// Act
	_, err := Verify(env, []ed25519.PublicKey{publicOf(testKey(1))})

	// Assert
	if !codec.IsEncodingError(err) {
		t.Errorf("Verify() error = %v, want EncodingError", err)
	}
}

func TestFirstMatchShortCircuits(t *testing.T) {
	// Arrange
	key := testKey(0x50)
	msg := []byte("dup")
	sig := ed25519.Sign(key, msg)
	pub := publicOf(key)

	// Act
	idx, ok := FirstMatch([]ed25519.PublicKey{publicOf(testKey(0x51)), pub, pub}, msg, sig)

	// Assert
	if !ok || idx != 1 {
		t.Errorf("FirstMatch() = (%d, %v), want (1, true)", idx, ok)
	}
}
