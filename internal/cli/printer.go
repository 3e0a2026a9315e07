// Package cli implements the finch-mcp command tree: the stdio server,
// VM lifecycle commands, and environment diagnostics.
package cli

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

func init() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		pterm.DisableColor()
	}
}

// Printer writes user-facing output. Quiet suppresses informational output
// but never errors.
type Printer struct {
	Quiet bool
}

// DefaultPrinter is the shared printer for command output.
var DefaultPrinter = &Printer{}

func (p *Printer) Println(args ...any) {
	if p.Quiet {
		return
	}
	fmt.Println(args...)
}

func (p *Printer) Printf(format string, args ...any) {
	if p.Quiet {
		return
	}
	fmt.Printf(format, args...)
}

// Section prints a section divider with a title.
func (p *Printer) Section(title string) {
	if p.Quiet {
		return
	}
	pterm.DefaultSection.Println(title)
}

// Step prints a progress line for one step of a longer operation.
func (p *Printer) Step(msg string) {
	if p.Quiet {
		return
	}
	pterm.Println(pterm.Gray("→ ") + msg)
}

// Info prints an informational line.
func (p *Printer) Info(msg string) {
	if p.Quiet {
		return
	}
	pterm.Info.Println(msg)
}

// SpinnerStart starts a spinner and returns a stop function. In quiet mode
// or without a TTY the spinner is skipped and stop is a no-op aside from
// the final status line.
func (p *Printer) SpinnerStart(msg string) func(success bool, result string) {
	if p.Quiet {
		return func(bool, string) {}
	}
	spinner, err := pterm.DefaultSpinner.Start(msg)
	if err != nil {
		return func(success bool, result string) {
			if success {
				Success(result)
			} else {
				Error(result)
			}
		}
	}
	return func(success bool, result string) {
		if success {
			spinner.Success(result)
		} else {
			spinner.Fail(result)
		}
	}
}

// Success prints a success line.
func Success(msg string) { pterm.Success.Println(msg) }

// Error prints an error line.
func Error(msg string) { pterm.Error.Println(msg) }

// Warn prints a warning line.
func Warn(msg string) { pterm.Warning.Println(msg) }

// Info prints an informational line.
func Info(msg string) { pterm.Info.Println(msg) }

// Header prints a prominent header.
func Header(title string) {
	pterm.DefaultHeader.WithFullWidth(false).Println(title)
}

// Table renders rows with the first row as header.
func Table(data [][]string) {
	if len(data) == 0 {
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// TableBoxed renders rows in a boxed table with the first row as header.
func TableBoxed(data [][]string) {
	if len(data) == 0 {
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}

// Green colors s green.
func Green(s string) string { return pterm.Green(s) }

// Yellow colors s yellow.
func Yellow(s string) string { return pterm.Yellow(s) }

// Red colors s red.
func Red(s string) string { return pterm.Red(s) }

// Cyan colors s cyan.
func Cyan(s string) string { return pterm.Cyan(s) }
