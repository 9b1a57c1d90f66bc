package shell_test

import (
	"io"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PapiCZ/fssim/shell"
	"github.com/PapiCZ/fssim/vfsapi"
)

func TestMakeDiskAndPwd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, shell.MakeDisk(path))

	logger := log.New()
	logger.SetOutput(io.Discard)
	s := vfsapi.NewSession(vfsapi.Options{Logger: logger})
	defer func() {
		assert.NoError(t, s.Close())
	}()

	assert.Equal(t, "/", shell.Pwd(s))
	require.NoError(t, s.Mount(path))
	assert.Equal(t, "/", shell.Pwd(s))

	require.NoError(t, s.Create("usr", 0))
	require.NoError(t, s.ChangeDirectory("usr"))
	require.NoError(t, s.Create("lib", 0))
	require.NoError(t, s.ChangeDirectory("lib"))
	assert.Equal(t, "/usr/lib", shell.Pwd(s))

	require.NoError(t, s.ChangeDirectory(".."))
	assert.Equal(t, "/usr", shell.Pwd(s))
}

func TestMakeDiskIsClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, shell.MakeDisk(path))
	assert.NoError(t, vfsapi.CheckImage(path))
}
