package vfs

import "fmt"

const (
	CodeInodeState = iota + 1
	CodeFileBounds
	CodeDirectoryShape
	CodeParent
	CodeDuplicateName
	CodeBitmap
	CodeDuplicateRange
)

func inconsistent(code int, format string, args ...interface{}) error {
	return &InconsistentError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// Check validates a freshly loaded superblock. It returns nil or an
// *InconsistentError for the first failing check; checks run in code order
// over the whole table.
func Check(sb *Superblock) error {
	checks := []func(*Superblock) error{
		checkInodeState,
		checkFileBounds,
		checkDirectoryShape,
		checkParents,
		checkUniqueNames,
		checkBitmap,
		checkDuplicateRanges,
	}
	for _, check := range checks {
		if err := check(sb); err != nil {
			return err
		}
	}
	return nil
}

func checkInodeState(sb *Superblock) error {
	for i, inode := range sb.Inodes {
		if inode.IsFree() && !inode.IsZero() {
			return inconsistent(CodeInodeState, "free inode %d is not zeroed", i)
		}
		if !inode.IsFree() && inode.Name[0] == 0 {
			return inconsistent(CodeInodeState, "used inode %d has no name", i)
		}
	}
	return nil
}

func checkFileBounds(sb *Superblock) error {
	for i, inode := range sb.Inodes {
		if !inode.IsFile() {
			continue
		}
		if inode.Size() < 1 || inode.Start() < FirstDataBlock || inode.End() > LastDataBlock {
			return inconsistent(CodeFileBounds, "file inode %d spans %d+%d", i, inode.Start(), inode.Size())
		}
	}
	return nil
}

func checkDirectoryShape(sb *Superblock) error {
	for i, inode := range sb.Inodes {
		if !inode.IsDir() {
			continue
		}
		if inode.Start() != 0 || inode.Size() != 0 {
			return inconsistent(CodeDirectoryShape, "directory inode %d has start %d and size %d", i, inode.Start(), inode.Size())
		}
	}
	return nil
}

func checkParents(sb *Superblock) error {
	for i, inode := range sb.Inodes {
		if inode.IsFree() {
			continue
		}
		parent := inode.Parent()
		switch {
		case parent.IsRoot():
		case parent == InvalidInode:
			return inconsistent(CodeParent, "inode %d has the invalid parent %d", i, parent)
		case int(parent) == i:
			return inconsistent(CodeParent, "inode %d is its own parent", i)
		case !sb.Inodes[parent].IsDir():
			return inconsistent(CodeParent, "parent %d of inode %d is not a used directory", parent, i)
		}
	}
	return nil
}

func checkUniqueNames(sb *Superblock) error {
	for i := range sb.Inodes {
		if sb.Inodes[i].IsFree() {
			continue
		}
		for j := i + 1; j < InodeCount; j++ {
			if sb.Inodes[j].IsFree() {
				continue
			}
			if sb.Inodes[i].Name == sb.Inodes[j].Name && sb.Inodes[i].Parent() == sb.Inodes[j].Parent() {
				return inconsistent(CodeDuplicateName, "inodes %d and %d are both called %s", i, j, sb.Inodes[i].NameString())
			}
		}
	}
	return nil
}

func checkBitmap(sb *Superblock) error {
	if !sb.ComputeBitmap().Equal(sb.FreeBlocks()) {
		return inconsistent(CodeBitmap, "free block list does not match the inodes")
	}
	return nil
}

func checkDuplicateRanges(sb *Superblock) error {
	for i := range sb.Inodes {
		if !sb.Inodes[i].IsFile() {
			continue
		}
		for j := i + 1; j < InodeCount; j++ {
			if !sb.Inodes[j].IsFile() {
				continue
			}
			if sb.Inodes[i].StartBlock == sb.Inodes[j].StartBlock && sb.Inodes[i].Size() == sb.Inodes[j].Size() {
				return inconsistent(CodeDuplicateRange, "inodes %d and %d share blocks %d+%d", i, j, sb.Inodes[i].Start(), sb.Inodes[i].Size())
			}
		}
	}
	return nil
}
