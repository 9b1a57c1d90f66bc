package shell

import (
	"bytes"
	"os"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/PapiCZ/fssim/commands"
	"github.com/PapiCZ/fssim/vfs"
	"github.com/PapiCZ/fssim/vfsapi"
)

func session(c *ishell.Context) *vfsapi.Session {
	return c.Get("session").(*vfsapi.Session)
}

// run executes cmd and prints whatever the command produced.
func run(c *ishell.Context, cmd commands.Command) bool {
	var out, errOut bytes.Buffer
	err := commands.Execute(session(c), cmd, &out, &errOut)
	c.Print(out.String())
	c.Print(errOut.String())
	return err == nil
}

func Mount(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	if run(c, commands.Command{Op: commands.Mount, Name: c.Args[0]}) {
		updatePrompt(c)
	}
}

func Create(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Println("expected 2 arguments")
		return
	}

	size, err := strconv.Atoi(c.Args[1])
	if err != nil {
		c.Println("size must be a number")
		return
	}

	run(c, commands.Command{Op: commands.Create, Name: c.Args[0], Number: size})
}

func Mkdir(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	run(c, commands.Command{Op: commands.Create, Name: c.Args[0]})
}

func Rm(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	run(c, commands.Command{Op: commands.Delete, Name: c.Args[0]})
}

func Resize(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Println("expected 2 arguments")
		return
	}

	size, err := strconv.Atoi(c.Args[1])
	if err != nil {
		c.Println("size must be a number")
		return
	}

	run(c, commands.Command{Op: commands.Resize, Name: c.Args[0], Number: size})
}

func Read(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Println("expected 2 arguments")
		return
	}

	block, err := strconv.Atoi(c.Args[1])
	if err != nil {
		c.Println("block must be a number")
		return
	}

	if run(c, commands.Command{Op: commands.Read, Name: c.Args[0], Number: block}) {
		c.Println(vfs.CToGoString(session(c).Buffer()))
	}
}

func Write(c *ishell.Context) {
	if len(c.Args) != 2 {
		c.Println("expected 2 arguments")
		return
	}

	block, err := strconv.Atoi(c.Args[1])
	if err != nil {
		c.Println("block must be a number")
		return
	}

	run(c, commands.Command{Op: commands.Write, Name: c.Args[0], Number: block})
}

func Buffer(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	run(c, commands.Command{Op: commands.Buffer, Data: []byte(c.Args[0])})
}

func Ls(c *ishell.Context) {
	run(c, commands.Command{Op: commands.List})
}

func Cd(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	if run(c, commands.Command{Op: commands.Cd, Name: c.Args[0]}) {
		updatePrompt(c)
	}
}

func Defrag(c *ishell.Context) {
	run(c, commands.Command{Op: commands.Defragment})
}

func Check(c *ishell.Context) {
	err := vfsapi.FsCheck(session(c))
	if err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

func Mkdisk(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	if err := MakeDisk(c.Args[0]); err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

// Load runs a command script from the host filesystem in this shell's
// session.
func Load(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("expected 1 argument")
		return
	}

	path := c.Args[0]
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.Println("FILE NOT FOUND")
		} else {
			c.Err(err)
		}
		return
	}
	defer func() {
		_ = f.Close()
	}()

	var out, errOut bytes.Buffer
	runner := commands.Runner{
		Session: session(c),
		Script:  path,
		Out:     &out,
		Err:     &errOut,
	}
	_, err = runner.Run(f)
	c.Print(out.String())
	c.Print(errOut.String())
	if err != nil {
		c.Err(err)
	}
	updatePrompt(c)
}

// MakeDisk creates a formatted, empty image at path.
func MakeDisk(path string) error {
	if err := vfs.PrepareVolumeFile(path); err != nil {
		return err
	}

	volume, err := vfs.NewFileVolume(path)
	if err != nil {
		return err
	}

	defer func() {
		_ = volume.Close()
	}()

	_, err = vfs.Format(volume)
	return err
}
