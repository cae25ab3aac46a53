package keysource

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/crypto/ssh"
)

// maxKeyLine caps the length of a single authorized-key line.
const maxKeyLine = 16 << 10

// ParsePrivateKey decodes an ed25519 private key.
// Accepted forms: OpenSSH and PKCS#8 PEM, a PEM block holding a raw 32-byte
// seed, and raw 32-byte seed or 64-byte key bytes.
func ParsePrivateKey(data []byte) (ed25519.PrivateKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		return parsePrivatePEM(data, block)
	}

	switch len(data) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(data), nil
	case ed25519.PrivateKeySize:
		key := ed25519.NewKeyFromSeed(data[:ed25519.SeedSize])
		if !bytes.Equal(key, data) {
			return nil, fmt.Errorf("raw private key has mismatched public half")
		}
		return key, nil
	}
	return nil, fmt.Errorf("unrecognized key format (%d bytes, no PEM block)", len(data))
}

func parsePrivatePEM(data []byte, block *pem.Block) (ed25519.PrivateKey, error) {
	raw, err := ssh.ParseRawPrivateKey(data)
	if err == nil {
		switch k := raw.(type) {
		case *ed25519.PrivateKey:
			return *k, nil
		case ed25519.PrivateKey:
			return k, nil
		default:
			return nil, fmt.Errorf("%w: PEM contains %T", ErrNotEd25519, raw)
		}
	}

	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) {
		return nil, ErrPassphraseProtected
	}

	if len(block.Bytes) == ed25519.SeedSize {
		return ed25519.NewKeyFromSeed(block.Bytes), nil
	}
	return nil, fmt.Errorf("unsupported key format: %w", err)
}

// ParsePublicKey decodes an ed25519 public key from an OpenSSH
// authorized-key line, a PKIX PEM block, or 32 raw bytes.
func ParsePublicKey(data []byte) (ed25519.PublicKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PEM public key: %w", err)
		}
		pub, ok := key.(ed25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: PEM contains %T", ErrNotEd25519, key)
		}
		return pub, nil
	}

	sshKey, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err == nil {
		return fromSSH(sshKey)
	}
	if len(data) == ed25519.PublicKeySize {
		return ed25519.PublicKey(bytes.Clone(data)), nil
	}
	return nil, fmt.Errorf("parse public key: %w", err)
}

// ParseAuthorizedKeys decodes every ed25519 entry of a newline-separated
// key listing. Lines of other key types, lines longer than maxKeyLine, and
// lines that fail to parse are skipped one at a time; the reasons are
// returned as a combined error alongside the keys.
func ParseAuthorizedKeys(data []byte) ([]ed25519.PublicKey, error) {
	var (
		keys    []ed25519.PublicKey
		skipped error
	)

	for i, raw := range bytes.Split(data, []byte("\n")) {
		lineNo := i + 1
		if len(raw) > maxKeyLine {
			skipped = multierr.Append(skipped, fmt.Errorf("line %d: %d bytes exceeds %d", lineNo, len(raw), maxKeyLine))
			continue
		}
		line := strings.TrimSpace(string(raw))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if kind := strings.Fields(line)[0]; kind != ssh.KeyAlgoED25519 {
			skipped = multierr.Append(skipped, fmt.Errorf("line %d: %s key ignored", lineNo, kind))
			continue
		}
		sshKey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		pub, err := fromSSH(sshKey)
		if err != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		keys = append(keys, pub)
	}
	return keys, skipped
}

func fromSSH(key ssh.PublicKey) (ed25519.PublicKey, error) {
	if key.Type() != ssh.KeyAlgoED25519 {
		return nil, fmt.Errorf("%w: %s", ErrNotEd25519, key.Type())
	}
	cpk, ok := key.(ssh.CryptoPublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEd25519, key.Type())
	}
	pub, ok := cpk.CryptoPublicKey().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotEd25519, cpk.CryptoPublicKey())
	}
	return pub, nil
}

// Fingerprint returns the OpenSSH SHA256 fingerprint of pub, or an empty
// string if pub is not a valid ed25519 key.
func Fingerprint(pub ed25519.PublicKey) string {
	sshKey, err := ssh.NewPublicKey(pub)
	if err != nil {
		return ""
	}
	return ssh.FingerprintSHA256(sshKey)
}
