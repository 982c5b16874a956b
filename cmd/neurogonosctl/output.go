package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// printer writes the human-readable command output. Headlines get bold
// escapes only when stdout is a terminal so piped output stays clean.
type printer struct {
	out io.Writer
	tty bool
}

func newPrinter() *printer {
	return &printer{
		out: os.Stdout,
		tty: isatty.IsTerminal(os.Stdout.Fd()),
	}
}

func (p *printer) headline(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if p.tty {
		fmt.Fprintf(p.out, "\x1b[1m%s\x1b[0m\n", line)
		return
	}
	fmt.Fprintln(p.out, line)
}

func (p *printer) kv(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) comma(n int) string {
	return humanize.Comma(int64(n))
}

// relativeTime renders run timestamps as "3 hours ago" on a terminal and
// leaves the raw stamp alone everywhere else so scripted output stays parseable.
func (p *printer) relativeTime(stamp string) string {
	if !p.tty {
		return stamp
	}
	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return stamp
	}
	return humanize.Time(t)
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
