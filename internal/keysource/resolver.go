// Package keysource resolves the key material used to sign and verify.
//
// File and network access are injected through FileReader and
// KeyListFetcher so resolution can be exercised without a real home
// directory or network.
package keysource

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// FileReader reads key files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// KeyListFetcher retrieves the public keys published for a user.
type KeyListFetcher interface {
	FetchKeys(ctx context.Context, user string) ([]ed25519.PublicKey, error)
}

// OSFiles reads from the local filesystem.
type OSFiles struct{}

// ReadFile implements FileReader.
func (OSFiles) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Resolver decides which keys an operation uses.
type Resolver struct {
	files   FileReader
	fetcher KeyListFetcher
	logger  *slog.Logger

	// Defaults used when no explicit path is given. Empty means the home
	// directory is unknown.
	defaultPrivate string
	defaultPublic  string
}

// Options configures a Resolver.
type Options struct {
	Files             FileReader
	Fetcher           KeyListFetcher
	Logger            *slog.Logger
	DefaultPrivateKey string
	DefaultPublicKey  string
}

// NewResolver creates a Resolver. Files defaults to OSFiles.
func NewResolver(opts Options) *Resolver {
	files := opts.Files
	if files == nil {
		files = OSFiles{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		files:          files,
		fetcher:        opts.Fetcher,
		logger:         logger,
		defaultPrivate: opts.DefaultPrivateKey,
		defaultPublic:  opts.DefaultPublicKey,
	}
}

// PrivateKey loads the signing key from path, or from the default private
// key path when path is empty.
func (r *Resolver) PrivateKey(path string) (ed25519.PrivateKey, error) {
	path, err := r.pick(path, r.defaultPrivate)
	if err != nil {
		return nil, err
	}

	data, err := r.read(path)
	if err != nil {
		return nil, err
	}

	key, err := ParsePrivateKey(data)
	if err != nil {
		return nil, &KeyFormatError{Path: path, Err: err}
	}
	r.logger.Debug("loaded private key", "path", path, "fingerprint", Fingerprint(key.Public().(ed25519.PublicKey)))
	return key, nil
}

// VerifyKeys selects the candidate keys for a verification.
type VerifyKeys struct {
	// Path is an explicit public key file; it overrides everything else.
	Path string
	// GitHub requests the keys published on GitHub.
	GitHub bool
	// User is the GitHub user given on the command line.
	User string
	// EnvelopeUser is the github_user carried by the envelope.
	EnvelopeUser string
	// DefaultUser is the configured GitHub user, used last.
	DefaultUser string
}

// Candidates is an ordered set of public keys and where they came from.
type Candidates struct {
	Keys   []ed25519.PublicKey
	Source string
}

// PublicKeys resolves the candidate key set. Precedence: an explicit path,
// then GitHub (command-line user, envelope user, configured user), then the
// default public key path. A failed GitHub lookup never falls back to local keys.
func (r *Resolver) PublicKeys(ctx context.Context, req VerifyKeys) (*Candidates, error) {
	if req.Path != "" {
		return r.publicKeyFile(req.Path)
	}

	if req.GitHub || req.User != "" {
		user := req.User
		if user == "" {
			user = req.EnvelopeUser
		}
		if user == "" {
			user = req.DefaultUser
		}
		if user == "" {
			return nil, &KeySourceUnavailableError{
				Source: "github",
				Reason: "no GitHub user given, configured, or in the envelope",
			}
		}
		if r.fetcher == nil {
			return nil, &KeySourceUnavailableError{Source: "github:" + user, Reason: "GitHub lookups are not configured"}
		}
		keys, err := r.fetcher.FetchKeys(ctx, user)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("resolved candidates", "source", "github", "user", user, "count", len(keys))
		return &Candidates{Keys: keys, Source: "github:" + user}, nil
	}

	path, err := r.pick("", r.defaultPublic)
	if err != nil {
		return nil, err
	}
	return r.publicKeyFile(path)
}

func (r *Resolver) publicKeyFile(path string) (*Candidates, error) {
	data, err := r.read(path)
	if err != nil {
		return nil, err
	}
	key, err := ParsePublicKey(data)
	if err != nil {
		return nil, &KeyFormatError{Path: path, Err: err}
	}
	r.logger.Debug("resolved candidates", "source", "file", "path", path, "fingerprint", Fingerprint(key))
	return &Candidates{Keys: []ed25519.PublicKey{key}, Source: path}, nil
}

func (r *Resolver) pick(explicit, fallback string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if fallback == "" {
		return "", &KeyNotFoundError{Err: fmt.Errorf("%w, specify a key with -k", ErrNoHome)}
	}
	return fallback, nil
}

func (r *Resolver) read(path string) ([]byte, error) {
	data, err := r.files.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &KeyNotFoundError{Path: path, Err: os.ErrNotExist}
		}
		return nil, &KeyNotFoundError{Path: path, Err: err}
	}
	return data, nil
}
