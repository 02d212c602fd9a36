package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Printer writes status messages gated by quiet/verbose flags.
// Errors always print; warnings, steps, and successes are suppressed under
// quiet; debug lines appear only under verbose.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	quiet   bool
	verbose bool

	stepStyle    lipgloss.Style
	successStyle lipgloss.Style
	skipStyle    lipgloss.Style
	warnStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewPrinter creates a printer writing normal output to out and errors to errOut.
func NewPrinter(out, errOut io.Writer, quiet, verbose bool) *Printer {
	return &Printer{
		out:          out,
		errOut:       errOut,
		quiet:        quiet,
		verbose:      verbose,
		stepStyle:    lipgloss.NewStyle().Foreground(ColorSecondary),
		successStyle: lipgloss.NewStyle().Foreground(ColorSuccess),
		skipStyle:    lipgloss.NewStyle().Foreground(ColorMuted),
		warnStyle:    lipgloss.NewStyle().Foreground(ColorWarning),
		errorStyle:   lipgloss.NewStyle().Foreground(ColorError),
		mutedStyle:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// Default creates a printer on stdout/stderr.
func Default(quiet, verbose bool) *Printer {
	return NewPrinter(os.Stdout, os.Stderr, quiet, verbose)
}

// DisableColor forces the ASCII color profile so no ANSI sequences are emitted.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// AutoColor disables color when stdout is not a terminal, so piped output
// stays clean without requiring --no-color.
func AutoColor() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		DisableColor()
	}
}

// Step announces the start of a pipeline stage.
// Shows: → Checking prerequisites...
func (p *Printer) Step(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.stepStyle.Render(SymbolArrow), fmt.Sprintf(format, args...))
}

// Success reports a completed stage or file.
// Shows: ✓ Installed deploy/pull.sh
func (p *Printer) Success(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.successStyle.Render(SymbolSuccess), fmt.Sprintf(format, args...))
}

// Skip reports a file left untouched.
// Shows: ⊘ Skipped deploy/pull.sh (exists)
func (p *Printer) Skip(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.skipStyle.Render(SymbolSkipped), fmt.Sprintf(format, args...))
}

// Warn reports a non-fatal problem.
func (p *Printer) Warn(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.warnStyle.Render(SymbolWarning), fmt.Sprintf(format, args...))
}

// Error reports a failure. Never suppressed.
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.errorStyle.Render(SymbolFail), fmt.Sprintf(format, args...))
}

// Info prints plain informational text (no symbol).
func (p *Printer) Info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Debug prints diagnostic detail, only under verbose.
func (p *Printer) Debug(format string, args ...interface{}) {
	if !p.verbose || p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s\n", p.mutedStyle.Render("  "+fmt.Sprintf(format, args...)))
}
