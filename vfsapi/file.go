package vfsapi

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/PapiCZ/fssim/vfs"
)

// SetBuffer replaces the staging buffer with data, zero padded to a block.
func (s *Session) SetBuffer(data []byte) error {
	if err := s.requireMount(); err != nil {
		return err
	}
	if len(data) > vfs.BlockSize {
		return fmt.Errorf("buffer of %d bytes exceeds %d: %w", len(data), vfs.BlockSize, vfs.ErrInvalidArgument)
	}

	s.buffer = [vfs.BlockSize]byte{}
	copy(s.buffer[:], data)
	return nil
}

// Buffer returns a copy of the staging buffer.
func (s *Session) Buffer() []byte {
	buf := make([]byte, vfs.BlockSize)
	copy(buf, s.buffer[:])
	return buf
}

// Write stores the staging buffer in block index of file name.
func (s *Session) Write(name string, index int) error {
	if err := s.requireMount(); err != nil {
		return err
	}

	_, inode, err := s.lookupFile(name)
	if err != nil {
		return err
	}

	if index < 0 || index >= inode.Size() {
		return fmt.Errorf("%s does not have block %d: %w", name, index, vfs.ErrInvalidArgument)
	}

	return s.fs.Volume.WriteBlock(inode.Start()+index, s.buffer[:])
}

// Read loads block index of file name into the staging buffer. The index
// may be one past the last block of the file, as long as that block is
// still on the disk.
func (s *Session) Read(name string, index int) error {
	if err := s.requireMount(); err != nil {
		return err
	}

	_, inode, err := s.lookupFile(name)
	if err != nil {
		return err
	}

	block := inode.Start() + index
	if index < 0 || index > inode.Size() || block > vfs.LastDataBlock {
		return fmt.Errorf("%s does not have block %d: %w", name, index, vfs.ErrInvalidArgument)
	}

	buf := make([]byte, vfs.BlockSize)
	if err := s.fs.Volume.ReadBlock(block, buf); err != nil {
		return err
	}
	copy(s.buffer[:], buf)
	return nil
}

// Resize grows or shrinks file name to newSize blocks.
func (s *Session) Resize(name string, newSize int) error {
	if err := s.requireMount(); err != nil {
		return err
	}

	ptr, inode, err := s.lookupFile(name)
	if err != nil {
		return err
	}

	if newSize < 1 || newSize > vfs.MaxFileSize {
		return fmt.Errorf("resizing %s to %d blocks: %w", name, newSize, vfs.ErrInvalidArgument)
	}

	oldSize, oldStart := inode.Size(), inode.Start()
	sb := s.superblock()

	switch {
	case newSize == oldSize:
		return nil
	case newSize < oldSize:
		err = sb.Shrink(s.fs.Volume, ptr, newSize)
	default:
		err = sb.Grow(s.fs.Volume, ptr, newSize)
	}
	if err != nil {
		return fmt.Errorf("resizing %s: %w", name, err)
	}

	s.log.WithFields(log.Fields{
		"name":     name,
		"oldSize":  oldSize,
		"newSize":  newSize,
		"oldStart": oldStart,
		"start":    inode.Start(),
	}).Debug("resized")

	return s.persist()
}
