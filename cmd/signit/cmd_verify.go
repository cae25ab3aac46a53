package main

import (
	"context"
	"fmt"

	"github.com/d2verb/signit/internal/envelope"
	"github.com/d2verb/signit/internal/keysource"
	"github.com/d2verb/signit/internal/signing"
	"github.com/d2verb/signit/internal/ui"
)

type VerifyCmd struct {
	Input     string  `help:"Envelope file to verify (default: stdin)" short:"i" placeholder:"FILE" predictor:"file"`
	Message   *string `help:"Envelope JSON to verify (overrides -i and stdin)" short:"m" placeholder:"JSON"`
	PublicKey string  `help:"Path to ed25519 public key (default: ~/.ssh/id_ed25519.pub), overrides -g" short:"k" name:"key" placeholder:"KEY" predictor:"public-key"`
	GitHub    bool    `help:"Pull public keys from GitHub for the envelope's github_user" short:"g" name:"github"`
	User      string  `help:"Pull public keys from GitHub for USER instead of the envelope's github_user" short:"u" placeholder:"USER"`
}

func (c *VerifyCmd) Run(g *Globals) error {
	a, err := newApp(g)
	if err != nil {
		return err
	}
	defer a.Close()

	raw, err := readInput(c.Message, c.Input)
	if err != nil {
		return err
	}

	env, err := envelope.Parse(raw)
	if err != nil {
		return err
	}

	if c.User != "" && env.GitHubUser != "" && c.User != env.GitHubUser && c.PublicKey == "" {
		ui.PrintWarning(fmt.Sprintf("Envelope names GitHub user %s, checking keys of %s instead", env.GitHubUser, c.User))
	}

	candidates, err := a.resolver().PublicKeys(context.Background(), keysource.VerifyKeys{
		Path:         c.PublicKey,
		GitHub:       c.GitHub,
		User:         c.User,
		EnvelopeUser: env.GitHubUser,
		DefaultUser:  a.cfg.GitHub.User,
	})
	if err != nil {
		return err
	}

	result, err := signing.Verify(env, candidates.Keys)
	if err != nil {
		a.logger.Info("verification failed", "source", candidates.Source, "candidates", len(candidates.Keys), "error", err)
		return err
	}

	a.logger.Info("verified",
		"source", candidates.Source,
		"key_index", result.Index,
		"fingerprint", keysource.Fingerprint(result.Key),
	)
	ui.PrintVerified()
	return nil
}
