package main

import (
	"errors"
	"fmt"

	"github.com/d2verb/signit/internal/config"
	"github.com/d2verb/signit/internal/editor"
	"github.com/d2verb/signit/internal/ui"
)

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Show the effective configuration"`
	Init ConfigInitCmd `cmd:"" help:"Write a default config file"`
	Edit ConfigEditCmd `cmd:"" help:"Open the config file in $EDITOR"`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	ui.PrintConfigDetails(ui.ConfigDetails{
		File:          a.configFile,
		FileExists:    fileExists(a.configFile),
		PrivateKey:    a.cfg.PrivateKey,
		PublicKey:     a.cfg.PublicKey,
		Pretty:        a.cfg.Pretty,
		GitHubUser:    a.cfg.GitHub.User,
		GitHubBaseURL: a.cfg.GitHub.BaseURL,
		GitHubTimeout: a.cfg.GitHub.Timeout.String(),
		LogPath:       a.cfg.Log.Path,
		LogLevel:      a.cfg.Log.Level,
	})
	return nil
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file" short:"f"`
}

func (c *ConfigInitCmd) Run(g *Globals) error {
	path, _, err := configPath(g)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no home directory detected, please specify a config path using --config")
	}

	if err := config.WriteTemplate(path, c.Force); err != nil {
		var exists *config.AlreadyExistsError
		if errors.As(err, &exists) {
			return errConfigExists(exists.Path)
		}
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Wrote %s", path))
	ui.PrintInfo("Edit it with: signit config edit")
	return nil
}

type ConfigEditCmd struct{}

// Run opens the config file in the editor, creating it from the defaults
// first if needed, and validates the result.
func (c *ConfigEditCmd) Run(g *Globals) error {
	path, home, err := configPath(g)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("no home directory detected, please specify a config path using --config")
	}

	if !fileExists(path) {
		if err := config.WriteTemplate(path, false); err != nil {
			return err
		}
	}

	ed, err := editor.Find()
	if err != nil {
		return err
	}
	if err := ed.Edit(path); err != nil {
		return err
	}

	if _, err := config.Load(path, home); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Saved %s", path))
	return nil
}
