package vfs

import "fmt"

// FindFreeRun returns the first block of the lowest run of count free data
// blocks.
func (sb *Superblock) FindFreeRun(count int) (int, bool) {
	bitmap := sb.FreeBlocks()
	run := 0
	for block := FirstDataBlock; block <= LastDataBlock; block++ {
		if bitmap.IsSet(block) {
			run = 0
			continue
		}
		run++
		if run == count {
			return block - count + 1, true
		}
	}
	return 0, false
}

// Allocate marks the first fitting run of size blocks used and returns its
// start. A size of 0 needs no blocks.
func (sb *Superblock) Allocate(size int) (int, error) {
	if size == 0 {
		return 0, nil
	}
	if size < 0 || size > MaxFileSize {
		return 0, fmt.Errorf("allocating %d blocks: %w", size, ErrInvalidArgument)
	}

	start, ok := sb.FindFreeRun(size)
	if !ok {
		return 0, fmt.Errorf("allocating %d blocks: %w", size, ErrNoFreeSpace)
	}

	if err := sb.FreeBlocks().SetRange(start, size, 1); err != nil {
		return 0, err
	}
	return start, nil
}

// Release zeroes and frees count blocks starting at start.
func (sb *Superblock) Release(volume Volume, start, count int) error {
	if count == 0 {
		return nil
	}
	if err := zeroBlocks(volume, start, count); err != nil {
		return err
	}
	return sb.FreeBlocks().SetRange(start, count, 0)
}

// Grow extends a file to newSize blocks, in place when the following blocks
// are free and by relocating the whole file otherwise. Nothing changes when
// no run of newSize blocks exists.
func (sb *Superblock) Grow(volume Volume, ptr InodePtr, newSize int) error {
	inode := sb.Inode(ptr)
	oldSize := inode.Size()
	start := inode.Start()

	if !inode.IsFile() || newSize <= oldSize || newSize > MaxFileSize {
		return fmt.Errorf("growing %s from %d to %d blocks: %w", inode.NameString(), oldSize, newSize, ErrInvalidArgument)
	}

	bitmap := sb.FreeBlocks()
	if start+newSize-1 <= LastDataBlock && bitmap.RangeFree(start+oldSize, newSize-oldSize) {
		if err := bitmap.SetRange(start+oldSize, newSize-oldSize, 1); err != nil {
			return err
		}
		return inode.setSize(newSize)
	}

	newStart, ok := sb.FindFreeRun(newSize)
	if !ok {
		return fmt.Errorf("growing %s to %d blocks: %w", inode.NameString(), newSize, ErrNoFreeSpace)
	}

	if err := moveBlocks(volume, start, newStart, oldSize); err != nil {
		return err
	}

	if err := bitmap.SetRange(start, oldSize, 0); err != nil {
		return err
	}
	if err := bitmap.SetRange(newStart, newSize, 1); err != nil {
		return err
	}
	inode.StartBlock = uint8(newStart)
	return inode.setSize(newSize)
}

// Shrink zeroes and frees the trailing blocks of a file. The start block is
// kept.
func (sb *Superblock) Shrink(volume Volume, ptr InodePtr, newSize int) error {
	inode := sb.Inode(ptr)
	oldSize := inode.Size()

	if !inode.IsFile() || newSize < 1 || newSize >= oldSize {
		return fmt.Errorf("shrinking %s from %d to %d blocks: %w", inode.NameString(), oldSize, newSize, ErrInvalidArgument)
	}

	if err := sb.Release(volume, inode.Start()+newSize, oldSize-newSize); err != nil {
		return err
	}
	return inode.setSize(newSize)
}

// moveBlocks copies count blocks from src to dst in ascending order and then
// zeroes the source blocks that dst does not cover. dst must not overlap the
// tail of src, which holds for any dst below src or disjoint from it.
func moveBlocks(volume Volume, src, dst, count int) error {
	block := make([]byte, BlockSize)
	for i := 0; i < count; i++ {
		if err := volume.ReadBlock(src+i, block); err != nil {
			return fmt.Errorf("moving block %d: %w", src+i, err)
		}
		if err := volume.WriteBlock(dst+i, block); err != nil {
			return fmt.Errorf("moving block %d to %d: %w", src+i, dst+i, err)
		}
	}

	for i := src; i < src+count; i++ {
		if i >= dst && i < dst+count {
			continue
		}
		if err := zeroBlocks(volume, i, 1); err != nil {
			return err
		}
	}
	return nil
}

func zeroBlocks(volume Volume, start, count int) error {
	zero := make([]byte, BlockSize)
	for block := start; block < start+count; block++ {
		if err := volume.WriteBlock(block, zero); err != nil {
			return fmt.Errorf("zeroing block %d: %w", block, err)
		}
	}
	return nil
}
