package main

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/PapiCZ/fssim/commands"
	"github.com/PapiCZ/fssim/config"
	"github.com/PapiCZ/fssim/shell"
	"github.com/PapiCZ/fssim/vfs"
	"github.com/PapiCZ/fssim/vfsapi"
)

func main() {
	app := &cli.App{
		Name:  "fssim",
		Usage: "simulate a 128 block contiguous-allocation file system",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file",
				Value: config.ConfigFile(),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "logrus level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "block-cache",
				Usage: "cache disk blocks in memory",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "execute a command script",
				ArgsUsage: "<input_file>",
				Action:    runScript,
			},
			{
				Name:      "shell",
				Usage:     "start an interactive shell",
				ArgsUsage: "[disk]",
				Action:    runShell,
			},
			{
				Name:      "mkdisk",
				Usage:     "create an empty disk image",
				ArgsUsage: "<disk>",
				Action:    mkdisk,
			},
			{
				Name:      "fsck",
				Usage:     "check a disk image without mounting it",
				ArgsUsage: "<disk>",
				Action:    fsck,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	c, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("log-level") {
		c.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("block-cache") {
		c.BlockCache = ctx.Bool("block-cache")
	}
	return c, c.Validate()
}

func newSession(ctx *cli.Context) (*vfsapi.Session, *config.Config, error) {
	c, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger := c.Logger()
	log.SetLevel(logger.GetLevel())
	log.SetFormatter(logger.Formatter)

	return vfsapi.NewSession(vfsapi.Options{
		Logger:     logger,
		BlockCache: c.BlockCache,
	}), c, nil
}

func runScript(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return cli.Exit(fmt.Sprintf("Usage: %s run <input_file>", ctx.App.Name), 1)
	}
	path := ctx.Args().First()

	s, _, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	f, err := os.Open(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error in opening the input file: %v", err), 1)
	}
	defer func() {
		_ = f.Close()
	}()

	runner := commands.Runner{
		Session: s,
		Script:  path,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
	failed, err := runner.Run(f)
	if err != nil {
		return err
	}

	log.WithField("script", path).WithField("failed", failed).Debug("script finished")
	return nil
}

func runShell(ctx *cli.Context) error {
	s, c, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	sh := shell.New(s, c.Prompt)
	if ctx.Args().Len() == 1 {
		if err := sh.Process("mount", ctx.Args().First()); err != nil {
			return err
		}
	}
	sh.Run()
	return nil
}

func mkdisk(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return cli.Exit("expected 1 argument", 1)
	}
	return shell.MakeDisk(ctx.Args().First())
}

func fsck(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return cli.Exit("expected 1 argument", 1)
	}
	path := ctx.Args().First()

	err := vfsapi.CheckImage(path)
	var inconsistent *vfs.InconsistentError
	switch {
	case err == nil:
		fmt.Printf("%s: clean\n", path)
		return nil
	case errors.As(err, &inconsistent):
		return cli.Exit(fmt.Sprintf("Error: File system in %s is inconsistent (error code: %d)", path, inconsistent.Code), 2)
	default:
		return err
	}
}
