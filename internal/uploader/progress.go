package uploader

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// progressPrinter renders an overwriting single-line progress indicator.
// It stays silent when disabled or when the output is not a terminal, so
// redirected output never fills with carriage returns.
type progressPrinter struct {
	out     io.Writer
	active  bool
	written bool
}

func newProgressPrinter(out io.Writer, enabled bool) *progressPrinter {
	return &progressPrinter{out: out, active: enabled && isTerminal(out)}
}

func (p *progressPrinter) update(current, total int) {
	if !p.active {
		return
	}
	fmt.Fprintf(p.out, "\r  progress: %d/%d items", current, total)
	p.written = true
}

func (p *progressPrinter) finish() {
	if p.written {
		fmt.Fprintln(p.out)
		p.written = false
	}
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
