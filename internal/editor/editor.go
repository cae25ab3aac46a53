// Package editor runs the user's text editor for composing messages and
// editing the config file.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

var fallbackEditors = []string{"nvim", "vim", "vi", "nano"}

// ErrEmpty is returned by Compose when the editor leaves the file empty.
var ErrEmpty = errors.New("empty message, aborting")

// Editor is an editor command line such as "vim" or "code --wait".
type Editor struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// Find picks the editor from $VISUAL, then $EDITOR, then the first of
// nvim, vim, vi and nano found on PATH.
func Find() (*Editor, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if cmd := strings.TrimSpace(os.Getenv(env)); cmd != "" {
			return New(cmd), nil
		}
	}
	for _, name := range fallbackEditors {
		if path, err := exec.LookPath(name); err == nil {
			return New(path), nil
		}
	}
	return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
}

// New returns an editor attached to the process terminal.
func New(command string) *Editor {
	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit runs the editor on path in the foreground and waits for it to exit.
func (e *Editor) Edit(path string) error {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run editor %s: %w", e.Command, err)
	}
	return nil
}

// Compose opens an empty temporary file in the editor and returns what was
// saved, byte for byte. The file is removed afterwards.
func (e *Editor) Compose() ([]byte, error) {
	f, err := os.CreateTemp("", "signit-message-*.txt")
	if err != nil {
		return nil, fmt.Errorf("create message file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close message file: %w", err)
	}

	if err := e.Edit(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}
