package main

import (
	"fmt"

	"github.com/d2verb/signit/internal/ui"
)

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(ui.Output, "signit version %s (%s)\n", version, commit)
	return nil
}
