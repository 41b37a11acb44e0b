package screen

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
)

// Clearer wipes the visible terminal contents.
type Clearer interface {
	Clear() error
}

// ClearerFunc adapts an ordinary function to the Clearer interface.
type ClearerFunc func() error

func (f ClearerFunc) Clear() error { return f() }

// ClearMode selects the Clearer built by NewClearer.
type ClearMode string

const (
	// ClearAuto picks the platform command on a terminal and ANSI otherwise.
	ClearAuto ClearMode = "auto"
	// ClearCommand runs the platform clear command.
	ClearCommand ClearMode = "command"
	// ClearANSI writes the ANSI erase sequence.
	ClearANSI ClearMode = "ansi"
)

// ansiClear homes the cursor and erases the whole display.
const ansiClear = "\033[H\033[2J"

// CommandClearer runs the platform clear command: "cls" on Windows and
// "clear" elsewhere. The command's output goes to Stdout.
type CommandClearer struct {
	Stdout io.Writer
}

func (c CommandClearer) Clear() error {
	name, args := clearCommand(runtime.GOOS)
	cmd := exec.Command(name, args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stdout
	return cmd.Run()
}

func clearCommand(goos string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/c", "cls"}
	}
	return "clear", nil
}

// ANSIClearer writes the ANSI erase sequence to W.
type ANSIClearer struct {
	W io.Writer
}

func (c ANSIClearer) Clear() error {
	_, err := io.WriteString(c.W, ansiClear)
	return err
}

// NewClearer returns the Clearer for mode, writing to out.
func NewClearer(mode ClearMode, out *os.File) Clearer {
	switch mode {
	case ClearCommand:
		return CommandClearer{Stdout: out}
	case ClearANSI:
		return ANSIClearer{W: out}
	default:
		if IsTerminal(out) {
			return CommandClearer{Stdout: out}
		}
		return ANSIClearer{W: out}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ParseClearMode converts a configuration string into a ClearMode.
func ParseClearMode(s string) (ClearMode, error) {
	switch m := ClearMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ClearAuto, ClearCommand, ClearANSI:
		return m, nil
	default:
		return "", fmt.Errorf("unknown clear mode %q (want %q, %q or %q)", s, ClearAuto, ClearCommand, ClearANSI)
	}
}
