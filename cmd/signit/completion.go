package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/posener/complete"

	"github.com/d2verb/signit/internal/config"
)

// keyFilePredictor completes key paths, offering keys from ~/.ssh first.
type keyFilePredictor struct {
	public bool
}

// newKeyFilePredictor returns a predictor for -k.
// public selects *.pub files; otherwise private id_* files are offered.
func newKeyFilePredictor(public bool) complete.Predictor {
	return &keyFilePredictor{public: public}
}

// Predict implements complete.Predictor interface.
func (p *keyFilePredictor) Predict(args complete.Args) []string {
	home, err := os.UserHomeDir()
	if err == nil {
		if results := completeKeyFiles(config.DefaultPaths(home).SSHDir, args.Last, p.public); len(results) > 0 {
			return results
		}
	}
	return complete.PredictFiles("*").Predict(args)
}

// completeKeyFiles lists key files in sshDir whose full path starts with partial.
func completeKeyFiles(sshDir, partial string, public bool) []string {
	entries, err := os.ReadDir(sshDir)
	if err != nil {
		return nil
	}

	var results []string
	for _, entry := range entries {
		if entry.IsDir() || !isKeyFile(entry.Name(), public) {
			continue
		}
		path := filepath.Join(sshDir, entry.Name())
		if strings.HasPrefix(path, partial) {
			results = append(results, path)
		}
	}
	sort.Strings(results)
	return results
}

func isKeyFile(name string, public bool) bool {
	if public {
		return strings.HasSuffix(name, ".pub")
	}
	return strings.HasPrefix(name, "id_") && !strings.HasSuffix(name, ".pub")
}
