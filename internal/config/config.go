// Package config handles signit paths and the optional configuration file.
package config

import (
	"path/filepath"
)

// Paths holds the well-known locations used by signit.
// Every field is empty when the home directory is unknown.
type Paths struct {
	Config     string
	SSHDir     string
	PrivateKey string
	PublicKey  string
}

// DefaultPaths derives all default locations from home.
func DefaultPaths(home string) *Paths {
	if home == "" {
		return &Paths{}
	}

	sshDir := filepath.Join(home, ".ssh")
	return &Paths{
		Config:     filepath.Join(home, ".signit", "config.yaml"),
		SSHDir:     sshDir,
		PrivateKey: filepath.Join(sshDir, "id_ed25519"),
		PublicKey:  filepath.Join(sshDir, "id_ed25519.pub"),
	}
}
