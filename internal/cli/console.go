// Package cli implements the terminal surface of Epic Events: prompted
// input with uniform blank-input cancellation, colored messages, table
// rendering, and the role-aware menus.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrAborted is returned by every prompt when the user enters a blank
// or whitespace-only value. It aborts the whole current operation; the
// dispatcher routes back to the start menu.
var ErrAborted = errors.New("cli: operation aborted")

// Console is the single terminal handle shared by prompts, messages,
// menus, and tables.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	// passwordFD is the file descriptor used for masked password
	// reads, or -1 when input is not a terminal (tests, pipes).
	passwordFD int
}

// NewConsole builds a console over arbitrary reader/writer. Password
// prompts fall back to plain reads.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, passwordFD: -1}
}

// Stdio returns the console bound to the process terminal. Password
// input is masked when stdin is a terminal.
func Stdio() *Console {
	c := NewConsole(os.Stdin, os.Stdout)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		c.passwordFD = fd
	}
	return c
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(line string) {
	fmt.Fprintln(c.out, line)
}

// NewLine prints an empty line.
func (c *Console) NewLine() {
	fmt.Fprintln(c.out)
}
