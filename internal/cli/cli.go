// Package cli implements the example trashcan command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"

	"github.com/FreeSlave/trashcan"
	"github.com/FreeSlave/trashcan/internal/config"
	"github.com/FreeSlave/trashcan/internal/env"
	"github.com/FreeSlave/trashcan/internal/log"
)

// Option is the full go-flags option set.
type Option struct {
	List    bool   `short:"l" long:"list" description:"List items in the trash can"`
	Restore string `short:"b" long:"restore" value-name:"NAME" description:"Restore the named item from the trash can"`
	Erase   string `short:"e" long:"erase" value-name:"NAME" description:"Permanently erase the named item"`
	Name    bool   `long:"name" description:"Print the trash can display name"`
	Config  string `long:"config" description:"Path to config file" default:""`

	Meta MetaOption `group:"Meta Options"`
	Rm   RmOption   `group:"Compatible (rm) Options"`
}

// MetaOption holds flags about the tool itself.
type MetaOption struct {
	Version bool `short:"V" long:"version" description:"Show version"`
}

// RmOption provides compatibility with rm command options.
type RmOption struct {
	Interactive bool `short:"i" description:"(dummy) prompt before every removal"`
	Recursive   bool `short:"r" long:"recursive" description:"(dummy) remove directories and their contents recursively"`
	Recursive2  bool `short:"R" description:"(dummy) same as -r"`
	Force       bool `short:"f" long:"force" description:"ignore nonexistent files, never prompt"`
	Directory   bool `short:"d" long:"dir" description:"(dummy) remove empty directories"`
	Verbose     bool `short:"v" long:"verbose" description:"explain what is being done"`
}

// Version describes the build.
type Version struct {
	AppName   string
	Version   string
	Revision  string
	BuildDate string
}

func (v Version) Print() string {
	return fmt.Sprintf("%s %s (%s) built on %s\n", v.AppName, v.Version, v.Revision, v.BuildDate)
}

// CLI carries the parsed options and the loaded config through a run.
type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string
}

// Run parses the arguments and executes one command.
func Run(v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "[-l | -b NAME | -e NAME | --name | files...]"
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}

	var w io.Writer = io.Discard
	if cfg.Logging.Enabled {
		if logPath, err := env.LogPath(); err == nil {
			if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
				if file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
					w = file
				}
			}
		}
	}
	logger := log.Setup(w, cfg.Logging.Level)
	logger.With("run_id", xid.New().String())

	slog.Debug("run started", "version", v.Version, "revision", v.Revision)
	defer slog.Debug("run finished")

	c := CLI{
		version: v,
		option:  opt,
		config:  cfg,
		runID:   xid.New().String(),
	}
	return c.run(args)
}

func (c *CLI) run(args []string) error {
	switch {
	case c.option.Meta.Version:
		fmt.Fprint(os.Stdout, c.version.Print())
		return nil
	case c.option.Name:
		return c.printName()
	case c.option.List:
		return c.list()
	case c.option.Restore != "":
		return c.restore(c.option.Restore)
	case c.option.Erase != "":
		return c.erase(c.option.Erase)
	default:
		return c.put(args)
	}
}

func (c *CLI) trashOptions() trashcan.Options {
	return trashcan.Options{
		UseTopDirs:        c.config.Core.UseTopDirs,
		CheckStickyBit:    c.config.Core.CheckStickyBit,
		FallbackToUserDir: c.config.Core.FallbackToUserDir,
		FallbackToHomeDir: c.config.Core.FallbackToHomeDir,
	}
}

func (c *CLI) printName() error {
	can, err := trashcan.NewTrashcanWithOptions(c.trashOptions())
	if err != nil {
		return err
	}
	defer can.Close()

	name := can.DisplayName()
	if name == "" {
		name = "Trash"
	}
	fmt.Println(name)
	return nil
}
