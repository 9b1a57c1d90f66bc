package shell

import (
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/PapiCZ/fssim/vfs"
	"github.com/PapiCZ/fssim/vfsapi"
)

// Pwd renders the current directory as an absolute path.
func Pwd(s *vfsapi.Session) string {
	sb, err := s.Superblock()
	if err != nil {
		return "/"
	}

	fragments := make([]string, 0)
	for ptr := s.Cwd(); !ptr.IsRoot() && ptr.IsSlot(); ptr = sb.Inodes[ptr].Parent() {
		fragments = append([]string{sb.Inodes[ptr].NameString()}, fragments...)
		if len(fragments) > vfs.InodeCount {
			break
		}
	}
	return "/" + strings.Join(fragments, "/")
}

func updatePrompt(c *ishell.Context) {
	s := session(c)
	if !s.Mounted() {
		return
	}
	c.SetPrompt(s.DiskName() + ":" + Pwd(s) + " > ")
}
