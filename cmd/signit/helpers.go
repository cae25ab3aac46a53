package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/d2verb/signit/internal/config"
	"github.com/d2verb/signit/internal/keysource"
	"github.com/d2verb/signit/internal/logging"
	"github.com/d2verb/signit/internal/pathutil"
	"github.com/d2verb/signit/internal/ui"
)

// stdin is the input source for messages and envelopes. Can be replaced for testing.
var stdin io.Reader = os.Stdin

// app holds the per-invocation environment shared by commands.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
	closer     io.Closer
}

// configPath returns the config file selected by g and the home directory
// used to resolve it. An empty path means no home directory is known.
func configPath(g *Globals) (path, home string, err error) {
	// A missing home directory is not fatal: explicit key paths still work.
	home, _ = os.UserHomeDir()
	if g.ConfigFile == "" {
		return config.DefaultPaths(home).Config, home, nil
	}

	path, err = pathutil.ResolvePath(g.ConfigFile, ".", home)
	if err != nil {
		return "", "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, home, nil
}

// newApp loads the configuration and opens the logger.
// The caller must Close the returned app.
func newApp(g *Globals) (*app, error) {
	configFile, home, err := configPath(g)
	if err != nil {
		return nil, err
	}
	if g.ConfigFile != "" && !fileExists(configFile) {
		return nil, fmt.Errorf("config file %s not found", configFile)
	}

	cfg, err := config.Load(configFile, home)
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.Open(logging.Config{
		Path:       cfg.Log.Path,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Verbose:    g.Verbose,
	}, ui.ErrOutput)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	return &app{
		configFile: configFile,
		cfg:        cfg,
		logger:     logger,
		closer:     closer,
	}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}

// resolver builds a key resolver backed by the local filesystem and GitHub.
func (a *app) resolver() *keysource.Resolver {
	return keysource.NewResolver(keysource.Options{
		Fetcher:           keysource.NewGitHubFetcher(a.cfg.GitHub.BaseURL, a.cfg.GitHub.Timeout, a.logger),
		Logger:            a.logger,
		DefaultPrivateKey: a.cfg.PrivateKey,
		DefaultPublicKey:  a.cfg.PublicKey,
	})
}

// readInput returns the inline value if one was given, else the content of
// path, else everything on stdin. The bytes are returned unmodified.
func readInput(inline *string, path string) ([]byte, error) {
	if inline != nil {
		return []byte(*inline), nil
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// writeOutput writes data to path, or to ui.Output followed by a newline
// when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		if _, err := ui.Output.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
