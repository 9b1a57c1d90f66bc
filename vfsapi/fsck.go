package vfsapi

import "github.com/PapiCZ/fssim/vfs"

// FsCheck runs the mount time consistency check against the active
// superblock.
func FsCheck(s *Session) error {
	if err := s.requireMount(); err != nil {
		return err
	}
	return vfs.Check(s.superblock())
}

// CheckImage loads and checks the image at path without mounting it.
func CheckImage(path string) error {
	volume, err := vfs.NewFileVolume(path)
	if err != nil {
		return err
	}

	defer func() {
		_ = volume.Close()
	}()

	_, err = vfs.LoadFilesystem(volume)
	return err
}
