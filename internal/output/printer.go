// Package output formats portfolioctl's terminal output.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes status lines, coloured when the terminal allows it.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// ResolveColors reports whether to colour output. NO_COLOR and a dumb
// terminal always win.
func ResolveColors(disabled bool) bool {
	if disabled {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func NewPrinter(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors}
}

func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) Info(format string, args ...any) {
	p.line(p.out, color.FgCyan, "", format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.line(p.out, color.FgGreen, "[OK] ", format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.line(p.err, color.FgYellow, "[WARN] ", format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.line(p.err, color.FgRed, "[ERROR] ", format, args...)
}

func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) line(w io.Writer, attr color.Attribute, prefix, format string, args ...any) {
	if p.useColors {
		color.New(attr).Fprintf(w, prefix+format+"\n", args...)
		return
	}
	fmt.Fprintf(w, prefix+format+"\n", args...)
}

// Header prints a section title with an underline.
func (p *Printer) Header(title string) {
	underline := make([]rune, len([]rune(title)))
	for i := range underline {
		underline[i] = '-'
	}
	if p.useColors {
		color.New(color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", string(underline))
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, string(underline))
}

// Field prints an aligned "label: value" line, skipping empty values.
func (p *Printer) Field(label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(p.out, "  %-14s %s\n", p.Bold(label+":"), value)
}

// Badge marks a boolean state, e.g. read/unread or published/draft.
func (p *Printer) Badge(on bool, onText, offText string) string {
	if !p.useColors {
		if on {
			return onText
		}
		return offText
	}
	if on {
		return color.GreenString(onText)
	}
	return color.YellowString(offText)
}

func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}
