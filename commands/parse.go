// Package commands runs the one-letter command scripts understood by the
// simulator against a vfsapi.Session.
package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PapiCZ/fssim/vfs"
)

const (
	Mount      = 'M'
	Create     = 'C'
	Delete     = 'D'
	Read       = 'R'
	Write      = 'W'
	Buffer     = 'B'
	List       = 'L'
	Resize     = 'E'
	Defragment = 'O'
	Cd         = 'Y'
)

var ErrMalformed = errors.New("malformed command")

// Command is one parsed script line.
type Command struct {
	Op     byte
	Name   string
	Number int
	Data   []byte
}

// Parse turns a script line into a Command. Leading whitespace is ignored;
// the line must not contain the trailing newline.
func Parse(line string) (Command, error) {
	line = strings.TrimLeft(line, " \t")
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return Command{}, ErrMalformed
	}

	cmd := Command{Op: line[0]}
	rest := line[1:]
	args := strings.Fields(rest)

	switch cmd.Op {
	case Mount:
		if len(args) != 1 {
			return cmd, ErrMalformed
		}
		cmd.Name = args[0]
	case Create, Resize:
		if len(args) != 2 || !validName(args[0]) || len(args[1]) > 3 {
			return cmd, ErrMalformed
		}
		size, err := strconv.Atoi(args[1])
		if err != nil || size < 0 || size > vfs.MaxFileSize {
			return cmd, ErrMalformed
		}
		cmd.Name, cmd.Number = args[0], size
	case Read, Write:
		if len(args) != 2 || !validName(args[0]) {
			return cmd, ErrMalformed
		}
		block, err := strconv.Atoi(args[1])
		if err != nil {
			return cmd, ErrMalformed
		}
		cmd.Name, cmd.Number = args[0], block
	case Delete, Cd:
		if len(args) != 1 || !validName(args[0]) {
			return cmd, ErrMalformed
		}
		cmd.Name = args[0]
	case Buffer:
		if len(rest) < 2 || rest[0] != ' ' {
			return cmd, ErrMalformed
		}
		data := rest[1:]
		if strings.ContainsAny(data, " \t") || len(data) > vfs.BlockSize {
			return cmd, ErrMalformed
		}
		cmd.Data = []byte(data)
	case List, Defragment:
		if len(args) != 0 {
			return cmd, ErrMalformed
		}
	default:
		return cmd, ErrMalformed
	}

	return cmd, nil
}

func validName(name string) bool {
	return len(name) > 0 && len(name) <= vfs.NameLength
}
