package vfsapi

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/PapiCZ/fssim/vfs"
)

// Create makes a file of size blocks in the current directory, or a
// directory when size is 0.
func (s *Session) Create(name string, size int) error {
	if err := s.requireMount(); err != nil {
		return err
	}
	if err := vfs.ValidName(name); err != nil {
		return err
	}
	if size < 0 || size > vfs.MaxFileSize {
		return fmt.Errorf("creating %s with %d blocks: %w", name, size, vfs.ErrInvalidArgument)
	}

	sb := s.superblock()

	ptr, err := sb.FindFreeInode()
	if err != nil {
		return fmt.Errorf("creating %s on %s: %w", name, s.disk, err)
	}

	if _, ok := sb.FindChild(s.cwd, name); ok {
		return fmt.Errorf("creating %s: %w", name, vfs.ErrAlreadyExists)
	}

	var inode vfs.Inode
	if size == 0 {
		inode, err = vfs.NewDirectoryInode(name, s.cwd)
		if err != nil {
			return err
		}
	} else {
		start, ok := sb.FindFreeRun(size)
		if !ok {
			return fmt.Errorf("creating %s with %d blocks on %s: %w", name, size, s.disk, vfs.ErrNoFreeSpace)
		}
		inode, err = vfs.NewFileInode(name, size, start, s.cwd)
		if err != nil {
			return err
		}
		if _, err := sb.Allocate(size); err != nil {
			return err
		}
	}

	*sb.Inode(ptr) = inode

	s.log.WithFields(log.Fields{
		"name":  name,
		"inode": ptr,
		"size":  size,
		"start": inode.Start(),
	}).Debug("created")

	return s.persist()
}

// Delete removes name from the current directory. Directories are removed
// with everything below them, children first.
func (s *Session) Delete(name string) error {
	if err := s.requireMount(); err != nil {
		return err
	}

	ptr, ok := s.superblock().FindChild(s.cwd, name)
	if !ok {
		return fmt.Errorf("deleting %s: %w", name, vfs.ErrNotFound)
	}

	if err := s.deleteTree(ptr, s.superblock().ChildIndex()); err != nil {
		return err
	}

	return s.persist()
}

func (s *Session) deleteTree(ptr vfs.InodePtr, children map[vfs.InodePtr][]vfs.InodePtr) error {
	sb := s.superblock()
	inode := sb.Inode(ptr)

	if inode.IsDir() {
		for _, child := range children[ptr] {
			if err := s.deleteTree(child, children); err != nil {
				return err
			}
		}
	}

	if err := sb.Release(s.fs.Volume, inode.Start(), inode.Size()); err != nil {
		return fmt.Errorf("deleting %s: %w", inode.NameString(), err)
	}

	s.log.WithFields(log.Fields{
		"name":  inode.NameString(),
		"inode": ptr,
	}).Debug("deleted")

	*inode = vfs.Inode{}
	return nil
}

// ChangeDirectory moves the current directory. "." stays, ".." goes to the
// parent and any other name must be a directory in the current one.
func (s *Session) ChangeDirectory(name string) error {
	if err := s.requireMount(); err != nil {
		return err
	}

	switch name {
	case ".":
		return nil
	case "..":
		if !s.cwd.IsRoot() {
			s.cwd = s.superblock().Inode(s.cwd).Parent()
		}
		return nil
	}

	ptr, ok := s.superblock().FindChild(s.cwd, name)
	if !ok || !s.superblock().Inode(ptr).IsDir() {
		return fmt.Errorf("directory %s: %w", name, vfs.ErrNotFound)
	}

	s.cwd = ptr
	return nil
}

// List returns the entries of the current directory: "." and ".." followed
// by the children in inode table order.
func (s *Session) List() ([]FileInfo, error) {
	if err := s.requireMount(); err != nil {
		return nil, err
	}

	sb := s.superblock()
	children := sb.ChildIndex()

	parent := s.cwd
	if !s.cwd.IsRoot() {
		parent = sb.Inode(s.cwd).Parent()
	}

	fileInfos := []FileInfo{
		{name: ".", size: len(children[s.cwd]) + 2, isDir: true},
		{name: "..", size: len(children[parent]) + 2, isDir: true},
	}

	for _, ptr := range children[s.cwd] {
		inode := sb.Inode(ptr)
		info := FileInfo{
			name:  inode.NameString(),
			size:  inode.Size(),
			isDir: inode.IsDir(),
		}
		if inode.IsDir() {
			info.size = len(children[ptr]) + 2
		}
		fileInfos = append(fileInfos, info)
	}

	return fileInfos, nil
}

// lookupFile finds a file (not a directory) called name in the current
// directory.
func (s *Session) lookupFile(name string) (vfs.InodePtr, *vfs.Inode, error) {
	ptr, ok := s.superblock().FindChild(s.cwd, name)
	if !ok {
		return 0, nil, fmt.Errorf("file %s: %w", name, vfs.ErrNotFound)
	}
	inode := s.superblock().Inode(ptr)
	if !inode.IsFile() {
		return 0, nil, fmt.Errorf("%s is a directory: %w", name, vfs.ErrNotFound)
	}
	return ptr, inode, nil
}
