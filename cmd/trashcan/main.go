package main

import (
	"fmt"
	"os"

	"github.com/FreeSlave/trashcan/internal/cli"
)

var (
	version   = "develop"
	revision  = "HEAD"
	buildDate = "unknown"
)

func main() {
	if err := cli.Run(cli.Version{
		AppName:   "trashcan",
		Version:   version,
		Revision:  revision,
		BuildDate: buildDate,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "trashcan: %v\n", err)
		os.Exit(1)
	}
}
