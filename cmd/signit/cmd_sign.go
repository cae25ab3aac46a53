package main

import (
	"crypto/ed25519"
	"fmt"

	"github.com/d2verb/signit/internal/editor"
	"github.com/d2verb/signit/internal/envelope"
	"github.com/d2verb/signit/internal/keysource"
	"github.com/d2verb/signit/internal/signing"
	"github.com/d2verb/signit/internal/ui"
)

type SignCmd struct {
	Input      string  `help:"File to sign (default: stdin)" short:"i" placeholder:"FILE" predictor:"file"`
	Output     string  `help:"Write the envelope to FILE (default: stdout)" short:"o" placeholder:"FILE" predictor:"file"`
	Message    *string `help:"Message to sign (overrides -e, -i and stdin)" short:"m" placeholder:"MSG"`
	Edit       bool    `help:"Compose the message in $EDITOR (overrides -i and stdin)" short:"e"`
	PrivateKey string  `help:"Path to ed25519 private key (default: ~/.ssh/id_ed25519)" short:"k" name:"key" placeholder:"KEY" predictor:"private-key"`
	GitHub     string  `help:"GitHub username to include in the envelope" short:"g" name:"github" placeholder:"USER"`
	Pretty     bool    `help:"Pretty print the JSON output" short:"p"`
}

func (c *SignCmd) Run(g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	key, err := a.resolver().PrivateKey(c.PrivateKey)
	if err != nil {
		return err
	}

	message, err := c.message()
	if err != nil {
		return err
	}

	githubUser := c.GitHub
	if githubUser == "" {
		githubUser = a.cfg.GitHub.User
	}

	env, err := signing.Sign(key, message, githubUser)
	if err != nil {
		return err
	}

	out, err := envelope.Marshal(env, c.Pretty || a.cfg.Pretty)
	if err != nil {
		return err
	}

	if err := writeOutput(c.Output, out); err != nil {
		return err
	}

	a.logger.Info("signed message",
		"bytes", len(message),
		"fingerprint", keysource.Fingerprint(key.Public().(ed25519.PublicKey)),
		"github_user", githubUser,
	)
	if c.Output != "" {
		ui.PrintSuccess(fmt.Sprintf("Signature written to %s", c.Output))
	}
	return nil
}

func (c *SignCmd) message() ([]byte, error) {
	if c.Message != nil || !c.Edit {
		return readInput(c.Message, c.Input)
	}

	ed, err := editor.Find()
	if err != nil {
		return nil, err
	}
	return ed.Compose()
}
