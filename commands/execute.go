package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/PapiCZ/fssim/vfs"
	"github.com/PapiCZ/fssim/vfsapi"
)

// Execute runs cmd against s. Listings go to out; failures are reported on
// errOut in the simulator's message format and returned.
func Execute(s *vfsapi.Session, cmd Command, out, errOut io.Writer) error {
	var err error

	switch cmd.Op {
	case Mount:
		err = s.Mount(cmd.Name)
	case Create:
		err = s.Create(cmd.Name, cmd.Number)
	case Delete:
		err = s.Delete(cmd.Name)
	case Read:
		err = s.Read(cmd.Name, cmd.Number)
	case Write:
		err = s.Write(cmd.Name, cmd.Number)
	case Buffer:
		err = s.SetBuffer(cmd.Data)
	case List:
		err = PrintList(s, out)
	case Resize:
		err = s.Resize(cmd.Name, cmd.Number)
	case Defragment:
		err = s.Defragment()
	case Cd:
		err = s.ChangeDirectory(cmd.Name)
	default:
		err = ErrMalformed
	}

	if err != nil {
		_, _ = fmt.Fprintln(errOut, Describe(s, cmd, err))
	}
	return err
}

// PrintList writes the current directory listing.
func PrintList(s *vfsapi.Session, out io.Writer) error {
	files, err := s.List()
	if err != nil {
		return err
	}

	for _, f := range files {
		if f.IsDir() {
			_, err = fmt.Fprintf(out, "%-5s %3d\n", f.Name(), f.Size())
		} else {
			_, err = fmt.Fprintf(out, "%-5s %3d KB\n", f.Name(), f.Size())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Describe renders an operation failure the way the simulator reports it.
func Describe(s *vfsapi.Session, cmd Command, err error) string {
	if errors.Is(err, vfs.ErrNotMounted) {
		return "Error: No file system is mounted"
	}

	var inconsistent *vfs.InconsistentError
	switch cmd.Op {
	case Mount:
		switch {
		case errors.As(err, &inconsistent):
			return fmt.Sprintf("Error: File system in %s is inconsistent (error code: %d)", cmd.Name, inconsistent.Code)
		case errors.Is(err, os.ErrNotExist):
			return fmt.Sprintf("Error: Cannot find disk %s", cmd.Name)
		case errors.Is(err, vfs.ErrShortRead):
			return "Error: Cannot read the superblock"
		case errors.Is(err, vfs.ErrImageSize):
			return fmt.Sprintf("Error: Disk %s is not %d bytes", cmd.Name, vfs.VolumeSize)
		}
	case Create:
		switch {
		case errors.Is(err, vfs.ErrNoFreeInode):
			return fmt.Sprintf("Error: Superblock in disk %s is full, cannot create %s", s.DiskName(), cmd.Name)
		case errors.Is(err, vfs.ErrAlreadyExists):
			return fmt.Sprintf("Error: File or directory %s already exists", cmd.Name)
		case errors.Is(err, vfs.ErrNoFreeSpace):
			return fmt.Sprintf("Error: Cannot allocate %d blocks on %s", cmd.Number, s.DiskName())
		}
	case Delete:
		if errors.Is(err, vfs.ErrNotFound) {
			return fmt.Sprintf("Error: File or directory %s does not exist", cmd.Name)
		}
	case Read, Write:
		switch {
		case errors.Is(err, vfs.ErrNotFound):
			return fmt.Sprintf("Error: File %s does not exist", cmd.Name)
		case errors.Is(err, vfs.ErrInvalidArgument):
			return fmt.Sprintf("Error: %s does not have block %d", cmd.Name, cmd.Number)
		}
	case Resize:
		switch {
		case errors.Is(err, vfs.ErrNotFound):
			return fmt.Sprintf("Error: File %s does not exist", cmd.Name)
		case errors.Is(err, vfs.ErrNoFreeSpace):
			return fmt.Sprintf("Error: File %s cannot expand to size %d", cmd.Name, cmd.Number)
		case errors.Is(err, vfs.ErrInvalidArgument):
			return fmt.Sprintf("Error: File %s cannot be resized to %d blocks", cmd.Name, cmd.Number)
		}
	case Cd:
		if errors.Is(err, vfs.ErrNotFound) {
			return fmt.Sprintf("Error: Directory %s does not exist", cmd.Name)
		}
	}

	return fmt.Sprintf("Error: %v", err)
}
