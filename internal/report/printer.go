// Package report renders scan progress and results for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"shaihulud/pkg/scanner"
)

// Printer writes one line per event. It is not safe for concurrent use; the
// dispatcher delivers results from a single goroutine.
type Printer struct {
	out io.Writer

	flag *color.Color
	okay *color.Color
	fail *color.Color
	info *color.Color
	bold *color.Color
}

// NewPrinter creates a Printer writing to out. With noColor set the output
// carries no ANSI escapes regardless of the global color setting.
func NewPrinter(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:  out,
		flag: color.New(color.FgRed, color.Bold),
		okay: color.New(color.FgGreen),
		fail: color.New(color.FgYellow),
		info: color.New(color.FgCyan),
		bold: color.New(color.Bold),
	}

	for _, c := range []*color.Color{p.flag, p.okay, p.fail, p.info, p.bold} {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}

	return p
}

// Start prints the run header. org is empty for file based scans.
func (p *Printer) Start(total int, org string) {
	if org != "" {
		fmt.Fprintf(p.out, "Starting scan for shai-hulud on %d users from org '%s'...\n", total, org)
		return
	}
	fmt.Fprintf(p.out, "Starting scan for shai-hulud on %d users...\n", total)
}

// Result prints the line for one scanned user
func (p *Printer) Result(r scanner.Result) {
	switch r.Outcome.Status {
	case scanner.StatusFlagged:
		fmt.Fprintf(p.out, "%s %s compromised: %s\n", p.flag.Sprint("[FLAG]"), r.Username, r.Outcome.RepoURL)
	case scanner.StatusClean:
		fmt.Fprintf(p.out, "%s %s\n", p.okay.Sprint("[OKAY]"), r.Username)
	default:
		fmt.Fprintf(p.out, "%s %s: %s\n", p.fail.Sprint("[ERROR]"), r.Username, r.Outcome.Reason)
	}
}

// Error prints a failure that ends the run
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.out, "%s %s\n", p.flag.Sprint("[ERROR]"), err)
}

// Info prints an informational line
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintf(p.out, "%s %s\n", p.info.Sprint("[INFO]"), fmt.Sprintf(format, args...))
}

// Summary prints the closing totals
func (p *Printer) Summary(s scanner.Summary) {
	line := fmt.Sprintf("Scanned %d users: %d flagged, %d clean, %d errors", s.Total, s.Flagged, s.Clean, s.Failed)
	fmt.Fprintln(p.out, p.bold.Sprint(line))
}
