package vfs

import "fmt"

func (sb *Superblock) firstFreeBlock() int {
	bitmap := sb.FreeBlocks()
	for block := FirstDataBlock; block <= LastDataBlock; block++ {
		if !bitmap.IsSet(block) {
			return block
		}
	}
	return -1
}

func (sb *Superblock) nextUsedBlock(from int) int {
	bitmap := sb.FreeBlocks()
	for block := from; block <= LastDataBlock; block++ {
		if bitmap.IsSet(block) {
			return block
		}
	}
	return -1
}

// Defragment packs every file to the left of the disk. Each step slides the
// whole file owning the first used block after the lowest free block down
// onto that free block, so files are never split. It returns the number of
// files moved.
func (sb *Superblock) Defragment(volume Volume) (int, error) {
	moved := 0
	bitmap := sb.FreeBlocks()

	for {
		free := sb.firstFreeBlock()
		if free < 0 {
			return moved, nil
		}
		used := sb.nextUsedBlock(free + 1)
		if used < 0 {
			return moved, nil
		}

		ptr, ok := sb.FileAt(used)
		if !ok {
			return moved, fmt.Errorf("block %d is used but owned by no file: %w", used, ErrInconsistent)
		}
		inode := sb.Inode(ptr)
		start, size := inode.Start(), inode.Size()
		if start < free {
			return moved, fmt.Errorf("file %s starts at %d below free block %d: %w", inode.NameString(), start, free, ErrInconsistent)
		}

		if err := moveBlocks(volume, start, free, size); err != nil {
			return moved, err
		}
		if err := bitmap.SetRange(start, size, 0); err != nil {
			return moved, err
		}
		if err := bitmap.SetRange(free, size, 1); err != nil {
			return moved, err
		}
		inode.StartBlock = uint8(free)
		moved++
	}
}

// Fragmented reports whether a free data block precedes a used one.
func (sb *Superblock) Fragmented() bool {
	free := sb.firstFreeBlock()
	return free >= 0 && sb.nextUsedBlock(free+1) >= 0
}
