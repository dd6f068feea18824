// Package anchor implements the terminal window every command writes to:
// plain log lines scroll above a single status line which named lots
// keep rewriting while some long running step is in progress.
package anchor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"atomicgo.dev/cursor"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type Color color.Attribute

const Red = Color(color.FgRed)

type Window struct {
	mu          sync.Mutex
	out         io.Writer
	in          *bufio.Reader
	interactive bool
	anchor      *color.Color
	lotColor    *color.Color
	status      bool
}

type Lot struct {
	window *Window
	name   string
}

// New returns a window bound to the process standard streams,
// highlighting anchored messages with the given color.
func New(c Color) *Window {
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return NewWithWriter(os.Stdout, os.Stdin, interactive, c)
}

// NewWithWriter builds a window on arbitrary streams:
// colors and line rewrites are only used when interactive is set.
func NewWithWriter(out io.Writer, in io.Reader, interactive bool, c Color) *Window {
	anchor := color.New(color.Attribute(c), color.Bold)
	lotColor := color.New(color.Faint)
	if !interactive {
		anchor.DisableColor()
		lotColor.DisableColor()
	}
	return &Window{
		out:         out,
		in:          bufio.NewReader(in),
		interactive: interactive,
		anchor:      anchor,
		lotColor:    lotColor,
	}
}

// Interactive reports whether the window is bound to a terminal.
func (w *Window) Interactive() bool {
	return w.interactive
}

func (w *Window) Printf(format string, a ...interface{}) {
	w.println(fmt.Sprintf(format, a...))
}

func (w *Window) Print(a ...interface{}) {
	w.println(fmt.Sprint(a...))
}

// AnchorPrintf prints a highlighted line, used for failures and warnings.
func (w *Window) AnchorPrintf(format string, a ...interface{}) {
	w.println(w.anchor.Sprintf(format, a...))
}

// Reads prompts the user and returns the trimmed answer.
func (w *Window) Reads(prompt string) string {
	w.mu.Lock()
	w.wipeStatus()
	fmt.Fprintf(w.out, "%s ", prompt)
	w.mu.Unlock()

	input, _ := w.in.ReadString('\n')
	return strings.TrimSpace(input)
}

// Confirm prompts a yes/no question, defaulting to no.
func (w *Window) Confirm(prompt string) bool {
	answer := strings.ToLower(w.Reads(prompt + " [y/N]:"))
	return answer == "y" || answer == "yes"
}

func (w *Window) Lot(name string) *Lot {
	return &Lot{window: w, name: name}
}

func (w *Window) println(line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wipeStatus()
	fmt.Fprintln(w.out, line)
}

// wipeStatus clears the status line, if any: callers must hold the lock.
func (w *Window) wipeStatus() {
	if !w.status {
		return
	}
	cursor.StartOfLine()
	cursor.ClearLine()
	w.status = false
}

func (lot *Lot) Printf(format string, a ...interface{}) {
	lot.Print(fmt.Sprintf(format, a...))
}

// Print updates the status line of the lot: on non interactive
// outputs progress updates are dropped to keep logs readable.
func (lot *Lot) Print(a ...interface{}) {
	w := lot.window
	if !w.interactive {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wipeStatus()
	fmt.Fprint(w.out, w.lotColor.Sprintf("%s: %s", lot.name, fmt.Sprint(a...)))
	w.status = true
}

func (lot *Lot) Wipe() {
	w := lot.window
	w.mu.Lock()
	defer w.mu.Unlock()
	w.wipeStatus()
}

// Close wipes the lot status line and prints its final outcome.
func (lot *Lot) Close(message ...string) {
	outcome := "done"
	if len(message) > 0 {
		outcome = strings.Join(message, " ")
	}
	lot.window.Printf("%s: %s", lot.name, outcome)
}
