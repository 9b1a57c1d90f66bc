package vfsapi_test

import (
	"io"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/PapiCZ/fssim/vfs"
	"github.com/PapiCZ/fssim/vfsapi"
)

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

// makeDisk creates and formats an image called name in dir.
func makeDisk(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, vfs.PrepareVolumeFile(path))
	volume, err := vfs.NewFileVolume(path)
	require.NoError(t, err)
	f, err := vfs.Format(volume)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

// corruptDisk rewrites the superblock of the image at path.
func corruptDisk(t *testing.T, path string, corrupt func(sb *vfs.Superblock)) {
	t.Helper()
	volume, err := vfs.NewFileVolume(path)
	require.NoError(t, err)
	sb, err := vfs.LoadSuperblock(volume)
	require.NoError(t, err)
	corrupt(&sb)
	require.NoError(t, vfs.SaveSuperblock(volume, &sb))
	require.NoError(t, volume.Close())
}

func newSession(blockCache bool) *vfsapi.Session {
	return vfsapi.NewSession(vfsapi.Options{
		Logger:     quietLogger(),
		BlockCache: blockCache,
	})
}

func names(infos []vfsapi.FileInfo) []string {
	out := make([]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Name())
	}
	return out
}
