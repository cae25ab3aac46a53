package keysource

import (
	"context"
	"crypto/ed25519"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// memFiles is an in-memory FileReader.
type memFiles map[string][]byte

func (m memFiles) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

// fakeFetcher records the requested user and returns canned keys.
type fakeFetcher struct {
	keys  []ed25519.PublicKey
	err   error
	users []string
}

func (f *fakeFetcher) FetchKeys(ctx context.Context, user string) ([]ed25519.PublicKey, error) {
	f.users = append(f.users, user)
	return f.keys, f.err
}

const (
	homePriv = "/home/alice/.ssh/id_ed25519"
	homePub  = "/home/alice/.ssh/id_ed25519.pub"
)

func TestResolverPrivateKey(t *testing.T) {
	defaultKey := seededKey(0x20)
	explicitKey := seededKey(0x21)
	files := memFiles{
		homePriv:      openSSHPrivate(t, defaultKey),
		"/keys/other": openSSHPrivate(t, explicitKey),
		"/keys/bad":   []byte("nope"),
	}
	r := NewResolver(Options{Files: files, DefaultPrivateKey: homePriv})

	t.Run("default path", func(t *testing.T) {
		key, err := r.PrivateKey("")
		if err != nil {
			t.Fatalf("PrivateKey() error = %v", err)
		}
		if !key.Equal(defaultKey) {
			t.Error("PrivateKey() did not load the default key")
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		key, err := r.PrivateKey("/keys/other")
		if err != nil {
			t.Fatalf("PrivateKey() error = %v", err)
		}
		if !key.Equal(explicitKey) {
			t.Error("PrivateKey() did not load the explicit key")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := r.PrivateKey("/keys/missing")
		if !IsKeyNotFound(err) {
			t.Errorf("PrivateKey() error = %v, want KeyNotFoundError", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("error should wrap fs.ErrNotExist: %v", err)
		}
	})

	t.Run("undecodable", func(t *testing.T) {
		_, err := r.PrivateKey("/keys/bad")
		if !IsKeyFormat(err) {
			t.Errorf("PrivateKey() error = %v, want KeyFormatError", err)
		}
	})
}

func TestResolverPrivateKeyNoHome(t *testing.T) {
	r := NewResolver(Options{Files: memFiles{}})

	_, err := r.PrivateKey("")

	if !IsKeyNotFound(err) {
		t.Fatalf("PrivateKey() error = %v, want KeyNotFoundError", err)
	}
	if !errors.Is(err, ErrNoHome) {
		t.Errorf("error should wrap ErrNoHome: %v", err)
	}
}

func TestResolverPublicKeysPrecedence(t *testing.T) {
	defaultPub := seededKey(0x30).Public().(ed25519.PublicKey)
	explicitPub := seededKey(0x31).Public().(ed25519.PublicKey)
	githubPub := seededKey(0x32).Public().(ed25519.PublicKey)

	files := memFiles{
		homePub:         authorizedKey(t, defaultPub),
		"/keys/alt.pub": authorizedKey(t, explicitPub),
	}

	tests := []struct {
		name       string
		req        VerifyKeys
		want       ed25519.PublicKey
		wantSource string
		wantUsers  []string
	}{
		{
			name:       "explicit path wins over github",
			req:        VerifyKeys{Path: "/keys/alt.pub", GitHub: true, User: "octocat", EnvelopeUser: "hubot"},
			want:       explicitPub,
			wantSource: "/keys/alt.pub",
		},
		{
			name:       "github uses envelope user",
			req:        VerifyKeys{GitHub: true, EnvelopeUser: "hubot"},
			want:       githubPub,
			wantSource: "github:hubot",
			wantUsers:  []string{"hubot"},
		},
		{
			name:       "command line user wins over envelope user",
			req:        VerifyKeys{GitHub: true, User: "octocat", EnvelopeUser: "hubot"},
			want:       githubPub,
			wantSource: "github:octocat",
			wantUsers:  []string{"octocat"},
		},
		{
			name:       "envelope user wins over configured user",
			req:        VerifyKeys{GitHub: true, EnvelopeUser: "hubot", DefaultUser: "monalisa"},
			want:       githubPub,
			wantSource: "github:hubot",
			wantUsers:  []string{"hubot"},
		},
		{
			name:       "configured user as last resort",
			req:        VerifyKeys{GitHub: true, DefaultUser: "monalisa"},
			want:       githubPub,
			wantSource: "github:monalisa",
			wantUsers:  []string{"monalisa"},
		},
		{
			name:       "configured user alone does not enable github",
			req:        VerifyKeys{DefaultUser: "monalisa"},
			want:       defaultPub,
			wantSource: homePub,
		},
		{
			name:       "user implies github",
			req:        VerifyKeys{User: "octocat"},
			want:       githubPub,
			wantSource: "github:octocat",
			wantUsers:  []string{"octocat"},
		},
		{
			name:       "envelope user alone does not enable github",
			req:        VerifyKeys{EnvelopeUser: "hubot"},
			want:       defaultPub,
			wantSource: homePub,
		},
		{
			name:       "default public key",
			req:        VerifyKeys{},
			want:       defaultPub,
			wantSource: homePub,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			fetcher := &fakeFetcher{keys: []ed25519.PublicKey{githubPub}}
			r := NewResolver(Options{Files: files, Fetcher: fetcher, DefaultPublicKey: homePub})

			// Act
			got, err := r.PublicKeys(context.Background(), tt.req)

			// Assert
			if err != nil {
				t.Fatalf("PublicKeys() error = %v", err)
			}
			if len(got.Keys) != 1 || !got.Keys[0].Equal(tt.want) {
				t.Errorf("PublicKeys() returned the wrong key")
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if len(fetcher.users) != len(tt.wantUsers) {
				t.Fatalf("fetched users = %v, want %v", fetcher.users, tt.wantUsers)
			}
			for i := range tt.wantUsers {
				if fetcher.users[i] != tt.wantUsers[i] {
					t.Errorf("fetched users = %v, want %v", fetcher.users, tt.wantUsers)
				}
			}
		})
	}
}

func TestResolverPublicKeysErrors(t *testing.T) {
	unavailable := &KeySourceUnavailableError{Source: "github:octocat", Reason: "no ed25519 keys published"}

	tests := []struct {
		name    string
		opts    Options
		req     VerifyKeys
		check   func(error) bool
		checkOn string
	}{
		{
			name:    "github without any user",
			opts:    Options{Fetcher: &fakeFetcher{}},
			req:     VerifyKeys{GitHub: true},
			check:   IsSourceUnavailable,
			checkOn: "KeySourceUnavailableError",
		},
		{
			name:    "github fetch failure does not fall back",
			opts:    Options{Fetcher: &fakeFetcher{err: unavailable}, DefaultPublicKey: homePub},
			req:     VerifyKeys{GitHub: true, EnvelopeUser: "octocat"},
			check:   IsSourceUnavailable,
			checkOn: "KeySourceUnavailableError",
		},
		{
			name:    "github not configured",
			opts:    Options{},
			req:     VerifyKeys{User: "octocat"},
			check:   IsSourceUnavailable,
			checkOn: "KeySourceUnavailableError",
		},
		{
			name:    "missing explicit file",
			opts:    Options{},
			req:     VerifyKeys{Path: "/keys/none.pub"},
			check:   IsKeyNotFound,
			checkOn: "KeyNotFoundError",
		},
		{
			name:    "no home directory",
			opts:    Options{},
			req:     VerifyKeys{},
			check:   IsKeyNotFound,
			checkOn: "KeyNotFoundError",
		},
		{
			name:    "undecodable public key",
			opts:    Options{DefaultPublicKey: "/keys/bad.pub"},
			req:     VerifyKeys{},
			check:   IsKeyFormat,
			checkOn: "KeyFormatError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			tt.opts.Files = memFiles{
				homePub:         authorizedKey(t, seededKey(0x40).Public().(ed25519.PublicKey)),
				"/keys/bad.pub": []byte("ssh-ed25519 ???"),
			}
			r := NewResolver(tt.opts)

			// Act
			got, err := r.PublicKeys(context.Background(), tt.req)

			// Assert
			if got != nil {
				t.Errorf("PublicKeys() = %+v, want nil", got)
			}
			if !tt.check(err) {
				t.Errorf("PublicKeys() error = %v, want %s", err, tt.checkOn)
			}
		})
	}
}

func TestOSFiles(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "id_ed25519.pub")
	pub := seededKey(0x50).Public().(ed25519.PublicKey)
	if err := os.WriteFile(path, authorizedKey(t, pub), 0644); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
	r := NewResolver(Options{DefaultPublicKey: path})

	// Act
	got, err := r.PublicKeys(context.Background(), VerifyKeys{})

	// Assert
	if err != nil {
		t.Fatalf("PublicKeys() error = %v", err)
	}
	if !got.Keys[0].Equal(pub) {
		t.Error("PublicKeys() returned the wrong key")
	}
}
