package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FreeSlave/trashcan"
)

func (c *CLI) put(args []string) error {
	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	for _, arg := range args {
		if err := c.putPath(arg); err != nil {
			return fmt.Errorf("failed to process %s: %w", arg, err)
		}
	}
	return nil
}

func (c *CLI) putPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if unsafe, err := isUnsafePath(path); err != nil {
		return err
	} else if unsafe {
		return fmt.Errorf("cannot trash protected path: %s", path)
	}

	info, err := os.Lstat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			if c.option.Rm.Force {
				return nil
			}
			return fmt.Errorf("%s: no such file or directory", path)
		}
		return err
	}

	if err := trashcan.MoveToTrashWithOptions(abs, c.trashOptions()); err != nil {
		return err
	}
	slog.Debug("trashed", "path", abs, "run_id", c.runID)

	if c.option.Rm.Verbose || c.config.Core.Verbose {
		if info.IsDir() {
			fmt.Printf("removed directory '%s'\n", path)
		} else {
			fmt.Printf("removed '%s'\n", path)
		}
	}
	return nil
}
