package vfs

import (
	"bytes"
	"fmt"
)

const (
	BlockSize      = 1024
	BlockCount     = 128
	DataBlockCount = BlockCount - 1
	FirstDataBlock = 1
	LastDataBlock  = BlockCount - 1
	VolumeSize     = BlockSize * BlockCount
	BitmapSize     = BlockCount / 8

	InodeCount  = 126
	NameLength  = 5
	MaxFileSize = 127
)

// InodePtr is an inode slot index. Values 0..125 address the inode table,
// 127 is the virtual root and 126 is never valid.
type InodePtr uint8

const (
	InvalidInode  InodePtr = 126
	RootDirectory InodePtr = 127
)

func (p InodePtr) IsRoot() bool {
	return p == RootDirectory
}

func (p InodePtr) IsSlot() bool {
	return p < InodeCount
}

const (
	flagBit   = 0x80
	valueMask = 0x7f
)

// UsedSize packs the allocation flag (high bit) with the size in blocks.
type UsedSize byte

func NewUsedSize(used bool, size int) (UsedSize, error) {
	if size < 0 || size > MaxFileSize {
		return 0, fmt.Errorf("size %d: %w", size, ErrInvalidArgument)
	}
	u := UsedSize(size)
	if used {
		u |= flagBit
	}
	return u, nil
}

func (u UsedSize) Used() bool {
	return u&flagBit != 0
}

func (u UsedSize) Size() int {
	return int(u & valueMask)
}

// DirParent packs the directory flag (high bit) with the parent slot.
type DirParent byte

func NewDirParent(dir bool, parent InodePtr) (DirParent, error) {
	if parent > RootDirectory || parent == InvalidInode {
		return 0, fmt.Errorf("parent %d: %w", parent, ErrInvalidArgument)
	}
	d := DirParent(parent)
	if dir {
		d |= flagBit
	}
	return d, nil
}

func (d DirParent) IsDir() bool {
	return d&flagBit != 0
}

func (d DirParent) Parent() InodePtr {
	return InodePtr(d & valueMask)
}

// Inode is the 8 byte on-disk record of a file or directory.
type Inode struct {
	Name       [NameLength]byte
	UsedSize   UsedSize
	StartBlock uint8
	DirParent  DirParent
}

func NewFileInode(name string, size int, start int, parent InodePtr) (Inode, error) {
	if size < 1 || start < FirstDataBlock || start+size-1 > LastDataBlock {
		return Inode{}, fmt.Errorf("file %s at %d+%d: %w", name, start, size, ErrInvalidArgument)
	}
	return newInode(name, false, size, start, parent)
}

func NewDirectoryInode(name string, parent InodePtr) (Inode, error) {
	return newInode(name, true, 0, 0, parent)
}

func newInode(name string, dir bool, size int, start int, parent InodePtr) (Inode, error) {
	if err := ValidName(name); err != nil {
		return Inode{}, err
	}
	usedSize, err := NewUsedSize(true, size)
	if err != nil {
		return Inode{}, err
	}
	dirParent, err := NewDirParent(dir, parent)
	if err != nil {
		return Inode{}, err
	}
	return Inode{
		Name:       StringNameToBytes(name),
		UsedSize:   usedSize,
		StartBlock: uint8(start),
		DirParent:  dirParent,
	}, nil
}

func (i Inode) IsFree() bool {
	return !i.UsedSize.Used()
}

func (i Inode) IsZero() bool {
	return i == Inode{}
}

func (i Inode) IsDir() bool {
	return i.UsedSize.Used() && i.DirParent.IsDir()
}

func (i Inode) IsFile() bool {
	return i.UsedSize.Used() && !i.DirParent.IsDir()
}

func (i Inode) Size() int {
	return i.UsedSize.Size()
}

func (i Inode) Start() int {
	return int(i.StartBlock)
}

// End returns the last block of a file. It is start-1 for empty files.
func (i Inode) End() int {
	return i.Start() + i.Size() - 1
}

func (i Inode) Parent() InodePtr {
	return i.DirParent.Parent()
}

func (i Inode) NameString() string {
	return CToGoString(i.Name[:])
}

func (i Inode) HasName(name string) bool {
	return i.Name == StringNameToBytes(name)
}

func (i Inode) Contains(block int) bool {
	return i.IsFile() && block >= i.Start() && block <= i.End()
}

func (i *Inode) setSize(size int) error {
	usedSize, err := NewUsedSize(true, size)
	if err != nil {
		return err
	}
	i.UsedSize = usedSize
	return nil
}

// ValidName accepts names of 1..5 bytes that fit the record and do not
// collide with the synthetic directory entries.
func ValidName(name string) error {
	if len(name) == 0 || len(name) > NameLength {
		return fmt.Errorf("name %q must be 1 to %d bytes: %w", name, NameLength, ErrInvalidArgument)
	}
	if bytes.IndexByte([]byte(name), 0) >= 0 || name == "." || name == ".." {
		return fmt.Errorf("name %q: %w", name, ErrInvalidArgument)
	}
	return nil
}
