// Package vfsapi implements the filesystem operations on top of a mounted
// volume: the directory tree, block I/O through the staging buffer, resize,
// defragmentation and the mount lifecycle.
package vfsapi

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/PapiCZ/fssim/vfs"
)

// Session owns all mutable state of one simulator run: the active
// filesystem, the current working directory and the staging buffer.
type Session struct {
	fs     *vfs.Filesystem
	disk   string
	cwd    vfs.InodePtr
	buffer [vfs.BlockSize]byte

	blockCache bool
	log        *log.Entry
}

type Options struct {
	// Logger defaults to the logrus standard logger.
	Logger *log.Logger

	// BlockCache puts a write-through block cache in front of every
	// mounted volume.
	BlockCache bool
}

func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Session{
		cwd:        vfs.RootDirectory,
		blockCache: opts.BlockCache,
		log:        logger.WithField("session", uuid.New().String()),
	}
}

// Mount opens the image at path, checks it and makes it the active disk.
// On failure the previously mounted disk, if any, stays active.
func (s *Session) Mount(path string) error {
	volume, err := vfs.NewFileVolume(path)
	if err != nil {
		s.log.WithField("disk", path).WithError(err).Info("cannot open disk")
		return fmt.Errorf("mounting %s: %w", path, err)
	}

	var v vfs.Volume = volume
	if s.blockCache {
		v = vfs.NewCachedVolume(volume)
	}

	return s.MountVolume(path, v)
}

// MountVolume activates an already opened volume under the given name. The
// volume is closed when it fails to load.
func (s *Session) MountVolume(name string, volume vfs.Volume) error {
	logger := s.log.WithField("disk", name)

	staged, err := vfs.LoadFilesystem(volume)
	if err != nil {
		_ = volume.Close()
		var inconsistent *vfs.InconsistentError
		if errors.As(err, &inconsistent) {
			logger.WithField("code", inconsistent.Code).Info(inconsistent.Reason)
		} else {
			logger.WithError(err).Info("cannot load superblock")
		}
		return fmt.Errorf("mounting %s: %w", name, err)
	}

	if s.fs != nil {
		if err := s.fs.Close(); err != nil {
			logger.WithField("previous", s.disk).WithError(err).Warn("closing previous disk")
		}
	}

	s.fs = staged
	s.disk = name
	s.cwd = vfs.RootDirectory

	if err := s.persist(); err != nil {
		return err
	}

	logger.WithField("usedBlocks", s.fs.Superblock.UsedBlocks()).Info("mounted")
	return nil
}

// Close releases the mounted disk.
func (s *Session) Close() error {
	if s.fs == nil {
		return nil
	}
	err := s.fs.Close()
	s.fs = nil
	s.disk = ""
	s.cwd = vfs.RootDirectory
	return err
}

// Logger is the session's log entry, tagged with its id.
func (s *Session) Logger() *log.Entry {
	return s.log
}

func (s *Session) Mounted() bool {
	return s.fs != nil
}

// DiskName is the path of the mounted image.
func (s *Session) DiskName() string {
	return s.disk
}

func (s *Session) Cwd() vfs.InodePtr {
	return s.cwd
}

// Superblock returns a copy of the active superblock.
func (s *Session) Superblock() (vfs.Superblock, error) {
	if err := s.requireMount(); err != nil {
		return vfs.Superblock{}, err
	}
	return s.fs.Superblock, nil
}

// Defragment left-packs all files and persists the result.
func (s *Session) Defragment() error {
	if err := s.requireMount(); err != nil {
		return err
	}

	moved, err := s.fs.Superblock.Defragment(s.fs.Volume)
	if err != nil {
		return fmt.Errorf("defragmenting %s: %w", s.disk, err)
	}

	s.log.WithField("moved", moved).Debug("defragmented")
	return s.persist()
}

func (s *Session) requireMount() error {
	if s.fs == nil {
		return vfs.ErrNotMounted
	}
	return nil
}

func (s *Session) persist() error {
	if err := s.fs.WriteStructureToVolume(); err != nil {
		return fmt.Errorf("persisting %s: %w", s.disk, err)
	}
	return nil
}

func (s *Session) superblock() *vfs.Superblock {
	return &s.fs.Superblock
}
