package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/PapiCZ/fssim/vfsapi"
)

// Runner executes a whole script. Operation failures and malformed lines are
// reported and the script continues; only I/O errors on the script itself
// stop it.
type Runner struct {
	Session *vfsapi.Session
	Script  string
	Out     io.Writer
	Err     io.Writer
}

// Run executes every non-blank line of in. It returns the number of lines
// that failed.
func (r *Runner) Run(in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 4096), 64*1024)

	failed := 0
	lineNum := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNum++

		cmd, err := Parse(line)
		if err != nil {
			_, _ = fmt.Fprintf(r.Err, "Command Error: %s, %d\n", r.Script, lineNum)
			failed++
			continue
		}

		if err := Execute(r.Session, cmd, r.Out, r.Err); err != nil {
			r.Session.Logger().WithFields(log.Fields{
				"script": r.Script,
				"line":   lineNum,
				"op":     string(cmd.Op),
			}).WithError(err).Debug("command failed")
			failed++
		}
	}

	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("reading %s: %w", r.Script, err)
	}
	return failed, nil
}
