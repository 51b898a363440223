package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// progressRenderer prints fractional progress as a percentage. On a terminal
// it rewrites a single status line; otherwise each change gets its own line
// so logs stay readable.
type progressRenderer struct {
	out  io.Writer
	tty  bool
	last int
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out, tty: isTerminalWriter(out), last: -1}
}

func (r *progressRenderer) update(frac float64) {
	pct := int(frac * 100)
	if pct == r.last {
		return
	}
	r.last = pct
	if r.tty {
		fmt.Fprintf(r.out, "\rprogress: %3d%%", pct)
		return
	}
	fmt.Fprintf(r.out, "progress: %d%%\n", pct)
}

func (r *progressRenderer) finish() {
	if r.tty && r.last >= 0 {
		fmt.Fprintln(r.out)
	}
}

func isTerminalWriter(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
