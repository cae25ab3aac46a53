// Package ui provides formatted output utilities for the CLI.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Color functions for consistent styling.
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc() // Dimmed text (more readable than gray)
	Bold   = color.New(color.Bold).SprintFunc()
)

// Output is the destination for UI output.
// Defaults to os.Stdout but can be overridden for testing.
var Output io.Writer = os.Stdout

// ErrOutput is the destination for error and warning messages.
var ErrOutput io.Writer = os.Stderr

// PrintVerified reports a successful verification.
func PrintVerified() {
	fmt.Fprintln(Output, Green("Verified!"))
}

// PrintSuccess prints a success message with green checkmark.
func PrintSuccess(message string) {
	fmt.Fprintf(Output, "%s %s\n", Green("✓"), message)
}

// PrintError prints an error message with red X.
func PrintError(message string) {
	fmt.Fprintf(ErrOutput, "%s %s\n", Red("✗"), message)
}

// PrintWarning prints a warning message with yellow exclamation.
func PrintWarning(message string) {
	fmt.Fprintf(ErrOutput, "%s %s\n", Yellow("⚠"), message)
}

// PrintInfo prints an info message with blue dot.
func PrintInfo(message string) {
	fmt.Fprintf(Output, "%s %s\n", Blue("•"), message)
}

// ConfigDetails contains the effective settings for display.
type ConfigDetails struct {
	File          string
	FileExists    bool
	PrivateKey    string
	PublicKey     string
	Pretty        bool
	GitHubUser    string
	GitHubBaseURL string
	GitHubTimeout string
	LogPath       string
	LogLevel      string
}

// PrintConfigDetails prints the effective configuration.
func PrintConfigDetails(c ConfigDetails) {
	file := c.File
	if !c.FileExists {
		file += " " + Dim("(not found, using defaults)")
	}
	fmt.Fprintf(Output, "%s %s\n", Bold("Config:"), file)
	fmt.Fprintf(Output, "%s %s\n", Bold("Private key:"), orUnset(c.PrivateKey))
	fmt.Fprintf(Output, "%s %s\n", Bold("Public key:"), orUnset(c.PublicKey))
	fmt.Fprintf(Output, "%s %t\n", Bold("Pretty:"), c.Pretty)

	fmt.Fprintln(Output, Bold("GitHub:"))
	fmt.Fprintf(Output, "  %s %s\n", Bold("User:"), orUnset(c.GitHubUser))
	fmt.Fprintf(Output, "  %s %s\n", Bold("Base URL:"), Blue(c.GitHubBaseURL))
	fmt.Fprintf(Output, "  %s %s\n", Bold("Timeout:"), c.GitHubTimeout)

	fmt.Fprintln(Output, Bold("Log:"))
	if c.LogPath == "" {
		fmt.Fprintf(Output, "  %s %s\n", Bold("File:"), Dim("(disabled)"))
	} else {
		fmt.Fprintf(Output, "  %s %s\n", Bold("File:"), c.LogPath)
	}
	fmt.Fprintf(Output, "  %s %s\n", Bold("Level:"), c.LogLevel)
}

func orUnset(s string) string {
	if s == "" {
		return Dim("(unset)")
	}
	return s
}
