package vfs

import "fmt"

// Superblock is the content of block 0: the block bitmap followed by the
// inode table. Its encoded size is exactly one block.
type Superblock struct {
	Bitmap [BitmapSize]byte
	Inodes [InodeCount]Inode
}

// NewSuperblock returns an empty superblock with block 0 reserved.
func NewSuperblock() Superblock {
	var sb Superblock
	_ = sb.FreeBlocks().SetBit(0, 1)
	return sb
}

// FreeBlocks returns the bitmap as a view that writes through to sb.
func (sb *Superblock) FreeBlocks() Bitmap {
	return Bitmap(sb.Bitmap[:])
}

// LoadSuperblock reads block 0 into a new staging copy.
func LoadSuperblock(volume Volume) (Superblock, error) {
	var sb Superblock
	if err := ReadStruct(volume, 0, &sb); err != nil {
		return Superblock{}, fmt.Errorf("%v: %w", err, ErrShortRead)
	}
	return sb, nil
}

// SaveSuperblock writes sb to block 0 in one synchronous write.
func SaveSuperblock(volume Volume, sb *Superblock) error {
	if err := WriteStruct(volume, 0, sb); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	return volume.Sync()
}

func (sb *Superblock) Inode(ptr InodePtr) *Inode {
	return &sb.Inodes[ptr]
}

// FindFreeInode returns the lowest free slot.
func (sb *Superblock) FindFreeInode() (InodePtr, error) {
	for i := range sb.Inodes {
		if sb.Inodes[i].IsFree() {
			return InodePtr(i), nil
		}
	}
	return 0, ErrNoFreeInode
}

// FindChild returns the used inode called name whose parent is parent.
func (sb *Superblock) FindChild(parent InodePtr, name string) (InodePtr, bool) {
	nameBytes := StringNameToBytes(name)
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if !inode.IsFree() && inode.Parent() == parent && inode.Name == nameBytes {
			return InodePtr(i), true
		}
	}
	return 0, false
}

// Children returns the used slots directly under parent in table order.
func (sb *Superblock) Children(parent InodePtr) []InodePtr {
	children := make([]InodePtr, 0)
	for i := range sb.Inodes {
		if !sb.Inodes[i].IsFree() && sb.Inodes[i].Parent() == parent {
			children = append(children, InodePtr(i))
		}
	}
	return children
}

// ChildIndex groups every used slot under its parent, keeping table order.
func (sb *Superblock) ChildIndex() map[InodePtr][]InodePtr {
	index := make(map[InodePtr][]InodePtr)
	for i := range sb.Inodes {
		if sb.Inodes[i].IsFree() {
			continue
		}
		parent := sb.Inodes[i].Parent()
		index[parent] = append(index[parent], InodePtr(i))
	}
	return index
}

// FileAt returns the file whose block range contains block.
func (sb *Superblock) FileAt(block int) (InodePtr, bool) {
	for i := range sb.Inodes {
		if sb.Inodes[i].Contains(block) {
			return InodePtr(i), true
		}
	}
	return 0, false
}

// ComputeBitmap rebuilds the bitmap from the used file inodes.
func (sb *Superblock) ComputeBitmap() Bitmap {
	bitmap := NewBitmap(BlockCount)
	_ = bitmap.SetBit(0, 1)
	for i := range sb.Inodes {
		inode := &sb.Inodes[i]
		if inode.IsFree() {
			continue
		}
		for block := inode.Start(); block <= inode.End(); block++ {
			_ = bitmap.SetBit(block, 1)
		}
	}
	return bitmap
}

func (sb *Superblock) UsedBlocks() int {
	used := 0
	bitmap := sb.FreeBlocks()
	for block := FirstDataBlock; block <= LastDataBlock; block++ {
		if bitmap.IsSet(block) {
			used++
		}
	}
	return used
}
