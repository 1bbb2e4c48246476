package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"flowlist/internal/orchestrator"
)

// progressPrinter renders group updates. On a terminal it rewrites one line;
// elsewhere it prints a line per group.
type progressPrinter struct {
	out         io.Writer
	interactive bool
	printed     bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, interactive: isTerminal(out)}
}

func (p *progressPrinter) update(u orchestrator.Update) {
	line := fmt.Sprintf("Classified %d/%d batches (%3.0f%%)", u.Completed, u.Total, u.Progress*100)
	if u.ETA > 0 {
		line += fmt.Sprintf(" · ETA %s", u.ETA.Round(time.Second))
	}
	if len(u.NewBuckets) > 0 {
		line += " · new: " + strings.Join(u.NewBuckets, ", ")
	}
	if p.interactive {
		fmt.Fprintf(p.out, "\r\033[K%s", line)
	} else {
		fmt.Fprintln(p.out, line)
	}
	p.printed = true
}

// finish ends the rewritten line so later output starts on its own line.
func (p *progressPrinter) finish() {
	if p.interactive && p.printed {
		fmt.Fprintln(p.out)
	}
}
