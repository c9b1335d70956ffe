package cli

import (
	"fmt"
	"log/slog"

	"github.com/FreeSlave/trashcan"
)

func (c *CLI) restore(name string) error {
	can, err := trashcan.NewTrashcanWithOptions(c.trashOptions())
	if err != nil {
		return err
	}
	defer can.Close()

	item, err := findItem(can, name)
	if err != nil {
		return err
	}

	if err := can.Restore(item); err != nil {
		return err
	}
	slog.Debug("restored", "name", name, "to", item.OriginalPath)
	fmt.Printf("restored '%s' to %s\n", name, item.OriginalPath)
	return nil
}

func (c *CLI) erase(name string) error {
	can, err := trashcan.NewTrashcanWithOptions(c.trashOptions())
	if err != nil {
		return err
	}
	defer can.Close()

	item, err := findItem(can, name)
	if err != nil {
		return err
	}

	if err := can.Erase(item); err != nil {
		return err
	}
	slog.Debug("erased", "name", name)
	fmt.Printf("erased '%s'\n", name)
	return nil
}

// findItem stops iterating as soon as the named item turns up.
func findItem(can *trashcan.Trashcan, name string) (*trashcan.Item, error) {
	for item := range can.Items() {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, fmt.Errorf("%s: not found in trash can", name)
}
