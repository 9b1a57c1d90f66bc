package vfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PapiCZ/fssim/vfs"
)

func TestAllocateFirstFit(t *testing.T) {
	sb := vfs.NewSuperblock()

	start, err := sb.Allocate(3)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, []int{0, 1, 2, 3}, usedBlocks(&sb))

	start, err = sb.Allocate(0)
	require.NoError(t, err)
	assert.Equal(t, 0, start, "directories take no blocks")
	assert.Equal(t, []int{0, 1, 2, 3}, usedBlocks(&sb))
}

func TestAllocateSkipsShortHoles(t *testing.T) {
	sb := vfs.NewSuperblock()
	require.NoError(t, sb.FreeBlocks().SetRange(1, 10, 1))
	require.NoError(t, sb.FreeBlocks().SetRange(3, 2, 0))

	start, err := sb.Allocate(3)
	require.NoError(t, err)
	assert.Equal(t, 11, start)

	start, err = sb.Allocate(2)
	require.NoError(t, err)
	assert.Equal(t, 3, start)
}

func TestAllocateExactRemainder(t *testing.T) {
	sb := vfs.NewSuperblock()
	require.NoError(t, sb.FreeBlocks().SetRange(1, 100, 1))

	start, err := sb.Allocate(27)
	require.NoError(t, err)
	assert.Equal(t, 101, start)

	_, err = sb.Allocate(1)
	assert.ErrorIs(t, err, vfs.ErrNoFreeSpace)
}

func TestAllocateWholeDisk(t *testing.T) {
	sb := vfs.NewSuperblock()
	start, err := sb.Allocate(vfs.MaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, 1, start)
}

func TestAllocateNoSpaceLeavesBitmap(t *testing.T) {
	sb := vfs.NewSuperblock()
	require.NoError(t, sb.FreeBlocks().SetBit(64, 1))
	before := sb.Bitmap

	_, err := sb.Allocate(64)
	assert.ErrorIs(t, err, vfs.ErrNoFreeSpace)
	assert.Equal(t, before, sb.Bitmap)
}

func TestGrowInPlace(t *testing.T) {
	f := newFilesystem(t)
	sb := &f.Superblock
	ptr := addFile(t, sb, "AAAAA", 2)
	fillBlock(t, f.Volume, 1, 'a')

	require.NoError(t, sb.Grow(f.Volume, ptr, 5))
	assert.Equal(t, 1, sb.Inode(ptr).Start())
	assert.Equal(t, 5, sb.Inode(ptr).Size())
	assertBlock(t, f.Volume, 1, 'a')
	assertConsistent(t, sb)
}

func TestGrowRelocates(t *testing.T) {
	f := newFilesystem(t)
	sb := &f.Superblock
	a := addFile(t, sb, "AAAAA", 2)
	addFile(t, sb, "BBBBB", 1)
	fillBlock(t, f.Volume, 1, 'x')
	fillBlock(t, f.Volume, 2, 'y')
	fillBlock(t, f.Volume, 3, 'b')

	require.NoError(t, sb.Grow(f.Volume, a, 4))
	inode := sb.Inode(a)
	assert.Equal(t, 4, inode.Start())
	assert.Equal(t, 4, inode.Size())

	assertBlock(t, f.Volume, 4, 'x')
	assertBlock(t, f.Volume, 5, 'y')
	assertBlock(t, f.Volume, 6, 0)
	assertBlock(t, f.Volume, 1, 0)
	assertBlock(t, f.Volume, 2, 0)
	assertBlock(t, f.Volume, 3, 'b')
	assert.Equal(t, []int{0, 3, 4, 5, 6, 7}, usedBlocks(sb))
	assertConsistent(t, sb)
}

func TestGrowAtEndOfDiskRelocates(t *testing.T) {
	f := newFilesystem(t)
	sb := &f.Superblock
	require.NoError(t, sb.FreeBlocks().SetRange(1, 125, 1))
	ptr, err := sb.FindFreeInode()
	require.NoError(t, err)
	start, err := sb.Allocate(1)
	require.NoError(t, err)
	require.Equal(t, 126, start)
	inode, err := vfs.NewFileInode("end", 1, start, vfs.RootDirectory)
	require.NoError(t, err)
	*sb.Inode(ptr) = inode
	require.NoError(t, sb.FreeBlocks().SetRange(1, 125, 0))

	require.NoError(t, sb.Grow(f.Volume, ptr, 3))
	assert.Equal(t, 1, sb.Inode(ptr).Start())
	assertConsistent(t, sb)
}

func TestGrowWithoutSpaceChangesNothing(t *testing.T) {
	f := newFilesystem(t)
	sb := &f.Superblock
	a := addFile(t, sb, "AAAAA", 2)
	addFile(t, sb, "BBBBB", 120)
	fillBlock(t, f.Volume, 1, 'x')
	before := *sb

	err := sb.Grow(f.Volume, a, 10)
	assert.ErrorIs(t, err, vfs.ErrNoFreeSpace)
	assert.Equal(t, before, *sb)
	assertBlock(t, f.Volume, 1, 'x')
}

func TestShrinkFreesTail(t *testing.T) {
	f := newFilesystem(t)
	sb := &f.Superblock
	ptr := addFile(t, sb, "AAAAA", 4)
	for block := 1; block <= 4; block++ {
		fillBlock(t, f.Volume, block, 'z')
	}

	require.NoError(t, sb.Shrink(f.Volume, ptr, 1))
	assert.Equal(t, 1, sb.Inode(ptr).Start())
	assert.Equal(t, 1, sb.Inode(ptr).Size())
	assertBlock(t, f.Volume, 1, 'z')
	assertBlock(t, f.Volume, 2, 0)
	assertBlock(t, f.Volume, 4, 0)
	assert.Equal(t, []int{0, 1}, usedBlocks(sb))
}

func TestGrowShrinkRejectBadSizes(t *testing.T) {
	f := newFilesystem(t)
	sb := &f.Superblock
	ptr := addFile(t, sb, "AAAAA", 4)

	assert.ErrorIs(t, sb.Grow(f.Volume, ptr, 4), vfs.ErrInvalidArgument)
	assert.ErrorIs(t, sb.Grow(f.Volume, ptr, 128), vfs.ErrInvalidArgument)
	assert.ErrorIs(t, sb.Shrink(f.Volume, ptr, 0), vfs.ErrInvalidArgument)
	assert.ErrorIs(t, sb.Shrink(f.Volume, ptr, 5), vfs.ErrInvalidArgument)
}
