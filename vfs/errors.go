package vfs

import (
	"errors"
	"fmt"
)

var (
	ErrNotMounted      = errors.New("no file system is mounted")
	ErrNotFound        = errors.New("file or directory does not exist")
	ErrAlreadyExists   = errors.New("file or directory already exists")
	ErrNoFreeInode     = errors.New("superblock is full")
	ErrNoFreeSpace     = errors.New("not enough contiguous free blocks")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrShortRead       = errors.New("cannot read the superblock")
	ErrShortBlock      = errors.New("short block read")
	ErrImageSize       = errors.New("image is not 128 blocks of 1024 bytes")
	ErrInconsistent    = errors.New("file system is inconsistent")
)

type OutOfRange struct {
	index    int
	maxIndex int
}

func (o OutOfRange) Error() string {
	return fmt.Sprintf("index out of range [%d], maximal index is [%d]", o.index, o.maxIndex)
}

// InconsistentError is returned by Check for the first defect found in a
// superblock. Code follows the order in which the checks run (1..7).
type InconsistentError struct {
	Code   int
	Reason string
}

func (i *InconsistentError) Error() string {
	return fmt.Sprintf("file system is inconsistent (error code: %d): %s", i.Code, i.Reason)
}

func (i *InconsistentError) Is(target error) bool {
	return target == ErrInconsistent
}
