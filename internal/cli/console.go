package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/libertil/eea-cdrtools/internal/infra/logger"
	"github.com/libertil/eea-cdrtools/internal/ports"
)

var (
	_ ports.Reporter  = (*stderrReporter)(nil)
	_ ports.Confirmer = (*stdinConfirmer)(nil)
)

// stderrReporter prints progress to stderr so stdout stays parseable, and
// mirrors every line into the structured log.
type stderrReporter struct {
	out io.Writer
}

func newStderrReporter() *stderrReporter {
	return &stderrReporter{out: os.Stderr}
}

func (r *stderrReporter) Stepf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.out, msg)
	logger.L().Info(msg)
}

func (r *stderrReporter) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(r.out, "warning: "+msg)
	logger.L().Warn(msg)
}

// stdinConfirmer asks y/N on stderr and reads the answer from stdin.
// autoApprove short-circuits for --yes runs. Anything but an explicit yes,
// including EOF, declines.
type stdinConfirmer struct {
	in          io.Reader
	out         io.Writer
	autoApprove bool

	reader *bufio.Reader
}

func newConfirmer(autoApprove bool) *stdinConfirmer {
	return &stdinConfirmer{in: os.Stdin, out: os.Stderr, autoApprove: autoApprove}
}

func (c *stdinConfirmer) Confirm(prompt string) bool {
	if c.autoApprove {
		return true
	}
	if c.reader == nil {
		c.reader = bufio.NewReader(c.in)
	}
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
