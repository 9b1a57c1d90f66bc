package vfs_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PapiCZ/fssim/vfs"
)

func newFilesystem(t *testing.T) *vfs.Filesystem {
	t.Helper()
	f, err := vfs.Format(vfs.NewMemVolume())
	require.NoError(t, err)
	return f
}

func addFile(t *testing.T, sb *vfs.Superblock, name string, size int) vfs.InodePtr {
	t.Helper()
	ptr, err := sb.FindFreeInode()
	require.NoError(t, err)
	start, err := sb.Allocate(size)
	require.NoError(t, err)
	inode, err := vfs.NewFileInode(name, size, start, vfs.RootDirectory)
	require.NoError(t, err)
	*sb.Inode(ptr) = inode
	return ptr
}

func addDir(t *testing.T, sb *vfs.Superblock, name string, parent vfs.InodePtr) vfs.InodePtr {
	t.Helper()
	ptr, err := sb.FindFreeInode()
	require.NoError(t, err)
	inode, err := vfs.NewDirectoryInode(name, parent)
	require.NoError(t, err)
	*sb.Inode(ptr) = inode
	return ptr
}

func removeFile(t *testing.T, f *vfs.Filesystem, ptr vfs.InodePtr) {
	t.Helper()
	inode := f.Superblock.Inode(ptr)
	require.NoError(t, f.Superblock.Release(f.Volume, inode.Start(), inode.Size()))
	*inode = vfs.Inode{}
}

func fillBlock(t *testing.T, v vfs.Volume, block int, b byte) {
	t.Helper()
	require.NoError(t, v.WriteBlock(block, bytes.Repeat([]byte{b}, vfs.BlockSize)))
}

func assertBlock(t *testing.T, v vfs.Volume, block int, b byte) {
	t.Helper()
	buf := make([]byte, vfs.BlockSize)
	require.NoError(t, v.ReadBlock(block, buf))
	assert.Equal(t, bytes.Repeat([]byte{b}, vfs.BlockSize), buf, "block %d", block)
}

func usedBlocks(sb *vfs.Superblock) []int {
	used := make([]int, 0)
	for block := 0; block < vfs.BlockCount; block++ {
		if sb.FreeBlocks().IsSet(block) {
			used = append(used, block)
		}
	}
	return used
}

func assertConsistent(t *testing.T, sb *vfs.Superblock) {
	t.Helper()
	assert.Equal(t, []byte(sb.ComputeBitmap()), sb.Bitmap[:], "bitmap must match the inodes")
	assert.NoError(t, vfs.Check(sb))
}
