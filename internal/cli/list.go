package cli

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/FreeSlave/trashcan"
)

func (c *CLI) list() error {
	can, err := trashcan.NewTrashcanWithOptions(c.trashOptions())
	if err != nil {
		return err
	}
	defer can.Close()

	items := can.List()
	if len(items) == 0 {
		fmt.Println("trash can is empty")
		return nil
	}

	// Newest first.
	slices.SortFunc(items, func(a, b *trashcan.Item) int {
		return b.DeletedAt.Compare(a.DeletedAt)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tDELETED\tORIGINAL PATH")
	for _, item := range items {
		size := humanize.Bytes(uint64(item.Size))
		if item.IsDir {
			size = "dir"
		}
		deleted := "unknown"
		if !item.DeletedAt.IsZero() {
			deleted = humanize.Time(item.DeletedAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.Name, size, deleted, item.OriginalPath)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	dirs := lo.CountBy(items, func(item *trashcan.Item) bool { return item.IsDir })
	fmt.Printf("%d items (%d directories)\n", len(items), dirs)
	return nil
}
