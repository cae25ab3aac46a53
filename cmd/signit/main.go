package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"

	"github.com/d2verb/signit/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
)

// Globals are flags shared by every command.
type Globals struct {
	Verbose    bool   `help:"Log diagnostics to stderr" short:"v"`
	ConfigFile string `help:"Config file (default: ~/.signit/config.yaml)" name:"config" placeholder:"PATH" predictor:"file"`
}

type CLI struct {
	Globals

	Sign   SignCmd   `cmd:"" help:"Sign a message using an ed25519 private key"`
	Verify VerifyCmd `cmd:"" help:"Verify a message using ed25519 public keys"`
	Config ConfigCmd `cmd:"" help:"Inspect or create the config file"`

	Version            VersionCmd                   `cmd:"" help:"Show version"`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

func main() {
	cli := CLI{}
	parser := kong.Must(&cli,
		kong.Name("signit"),
		kong.Description("Sign and verify messages with ed25519 SSH keys"),
		kong.UsageOnError(),
	)

	kongplete.Complete(parser,
		kongplete.WithPredictor("file", complete.PredictFiles("*")),
		kongplete.WithPredictor("private-key", newKeyFilePredictor(false)),
		kongplete.WithPredictor("public-key", newKeyFilePredictor(true)),
	)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	os.Exit(run(ctx, &cli.Globals))
}

// run executes the selected command and converts its error into an exit code.
func run(ctx *kong.Context, g *Globals) int {
	err := ctx.Run(g)
	if err == nil {
		return exitSuccess
	}

	exitErr := toExitError(err)
	if exitErr.Message != "" {
		ui.PrintError(exitErr.Message)
	}
	return exitErr.Code
}
