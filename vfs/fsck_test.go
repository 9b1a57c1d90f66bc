package vfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PapiCZ/fssim/vfs"
)

func consistentSuperblock(t *testing.T) vfs.Superblock {
	sb := vfs.NewSuperblock()
	addFile(t, &sb, "AAAAA", 3)
	dir := addDir(t, &sb, "BBBBB", vfs.RootDirectory)
	ptr, err := sb.FindFreeInode()
	require.NoError(t, err)
	start, err := sb.Allocate(2)
	require.NoError(t, err)
	inode, err := vfs.NewFileInode("CCCCC", 2, start, dir)
	require.NoError(t, err)
	*sb.Inode(ptr) = inode
	return sb
}

func TestCheckConsistent(t *testing.T) {
	sb := consistentSuperblock(t)
	assert.NoError(t, vfs.Check(&sb))

	empty := vfs.NewSuperblock()
	assert.NoError(t, vfs.Check(&empty))
}

func TestCheckDefects(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		damage func(sb *vfs.Superblock)
	}{
		{
			name: "free inode with leftover start",
			code: vfs.CodeInodeState,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(10).StartBlock = 4
			},
		},
		{
			name: "used inode without name",
			code: vfs.CodeInodeState,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(0).Name = [vfs.NameLength]byte{}
			},
		},
		{
			name: "file past the end of the disk",
			code: vfs.CodeFileBounds,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(0).StartBlock = 126
			},
		},
		{
			name: "file starting in the superblock",
			code: vfs.CodeFileBounds,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(0).StartBlock = 0
			},
		},
		{
			name: "directory with blocks",
			code: vfs.CodeDirectoryShape,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(1).StartBlock = 9
			},
		},
		{
			name: "invalid parent sentinel",
			code: vfs.CodeParent,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(0).DirParent = vfs.DirParent(vfs.InvalidInode)
			},
		},
		{
			name: "parent is a file",
			code: vfs.CodeParent,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(2).DirParent = 0
			},
		},
		{
			name: "parent slot is free",
			code: vfs.CodeParent,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(2).DirParent = 50
			},
		},
		{
			name: "directory is its own parent",
			code: vfs.CodeParent,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(1).DirParent = 0x80 | 1
			},
		},
		{
			name: "duplicate name under one parent",
			code: vfs.CodeDuplicateName,
			damage: func(sb *vfs.Superblock) {
				sb.Inode(1).Name = sb.Inode(0).Name
			},
		},
		{
			name: "bitmap misses a file block",
			code: vfs.CodeBitmap,
			damage: func(sb *vfs.Superblock) {
				_ = sb.FreeBlocks().SetBit(2, 0)
			},
		},
		{
			name: "bitmap marks an orphan block",
			code: vfs.CodeBitmap,
			damage: func(sb *vfs.Superblock) {
				_ = sb.FreeBlocks().SetBit(100, 1)
			},
		},
		{
			name: "bitmap without the superblock bit",
			code: vfs.CodeBitmap,
			damage: func(sb *vfs.Superblock) {
				_ = sb.FreeBlocks().SetBit(0, 0)
			},
		},
		{
			name: "two files on the same blocks",
			code: vfs.CodeDuplicateRange,
			damage: func(sb *vfs.Superblock) {
				_ = sb.FreeBlocks().SetRange(4, 2, 0)
				sb.Inode(2).StartBlock = 1
				sb.Inode(2).UsedSize = sb.Inode(0).UsedSize
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sb := consistentSuperblock(t)
			test.damage(&sb)

			err := vfs.Check(&sb)
			var inconsistent *vfs.InconsistentError
			require.ErrorAs(t, err, &inconsistent)
			assert.Equal(t, test.code, inconsistent.Code, inconsistent.Reason)
			assert.ErrorIs(t, err, vfs.ErrInconsistent)
		})
	}
}

func TestCheckAllowsPartialOverlap(t *testing.T) {
	sb := consistentSuperblock(t)
	// CCCCC moves onto AAAAA's last block: overlapping but not identical.
	_ = sb.FreeBlocks().SetRange(4, 2, 0)
	sb.Inode(2).StartBlock = 3

	_ = sb.FreeBlocks().SetBit(4, 1)
	assert.NoError(t, vfs.Check(&sb))
}

func TestCheckIgnoresDirectoriesForDuplicateRange(t *testing.T) {
	sb := vfs.NewSuperblock()
	addDir(t, &sb, "a", vfs.RootDirectory)
	addDir(t, &sb, "b", vfs.RootDirectory)
	assert.NoError(t, vfs.Check(&sb))
}

func TestLoadFilesystemRejectsInconsistentImage(t *testing.T) {
	f := newFilesystem(t)
	addFile(t, &f.Superblock, "AAAAA", 3)
	_ = f.Superblock.FreeBlocks().SetBit(3, 0)
	require.NoError(t, f.WriteStructureToVolume())

	_, err := vfs.LoadFilesystem(f.Volume)
	var inconsistent *vfs.InconsistentError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, vfs.CodeBitmap, inconsistent.Code)
}
