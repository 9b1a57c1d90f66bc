// Package shell is the interactive front end of the simulator.
package shell

import (
	"github.com/abiosoft/ishell"

	"github.com/PapiCZ/fssim/vfsapi"
)

// New builds an interactive shell bound to s.
func New(s *vfsapi.Session, prompt string) *ishell.Shell {
	shell := ishell.New()
	shell.SetPrompt(prompt)
	shell.Set("session", s)

	cmds := []*ishell.Cmd{
		{Name: "mount", Help: "mount <disk>", Func: Mount},
		{Name: "create", Help: "create <name> <blocks>", Func: Create},
		{Name: "mkdir", Help: "mkdir <name>", Func: Mkdir},
		{Name: "rm", Help: "rm <name>", Func: Rm},
		{Name: "resize", Help: "resize <name> <blocks>", Func: Resize},
		{Name: "read", Help: "read <name> <block>", Func: Read},
		{Name: "write", Help: "write <name> <block>", Func: Write},
		{Name: "buffer", Help: "buffer <bytes>", Func: Buffer},
		{Name: "ls", Help: "list the current directory", Func: Ls},
		{Name: "cd", Help: "cd <name>", Func: Cd},
		{Name: "defrag", Help: "defragment the disk", Func: Defrag},
		{Name: "check", Help: "check the mounted disk", Func: Check},
		{Name: "mkdisk", Help: "mkdisk <path>", Func: Mkdisk},
		{Name: "load", Help: "load <script>", Func: Load},
	}
	for _, cmd := range cmds {
		shell.AddCmd(cmd)
	}

	return shell
}
