// Package trash defines the types shared by the platform trash backends.
package trash

import (
	"io/fs"
	"os"
	"time"
)

// Item represents a single entry in a trash can.
//
// On freedesktop systems an item couples a payload under files/ with its
// .trashinfo companion under info/; both share the same leaf name. On
// Windows an item additionally owns an opaque shell identifier stored in
// Sys, which is released together with the enclosing trash can handle.
type Item struct {
	// Name is the leaf name the item carries inside the trash can. It may
	// differ from the original base name when a collision was resolved.
	Name string

	// OriginalPath is the absolute path the item would be restored to.
	OriginalPath string

	// TrashPath is the absolute path of the payload inside the trash can.
	// Empty on backends that do not expose payload locations directly.
	TrashPath string

	// InfoPath is the absolute path of the .trashinfo companion file.
	// Empty outside the freedesktop backend.
	InfoPath string

	// DeletedAt is the deletion timestamp with second granularity.
	// The zero value means the timestamp could not be determined.
	DeletedAt time.Time

	// Size is the payload size in bytes as reported at enumeration time.
	Size int64

	// IsDir reports whether the trashed payload is a directory.
	IsDir bool

	// FileMode is the payload's mode at enumeration time.
	FileMode fs.FileMode

	// Sys holds a backend-specific handle (a shell item identifier list on
	// Windows). Nil elsewhere.
	Sys any
}

// Exists reports whether the payload is still present in the trash can.
func (i *Item) Exists() bool {
	if i.TrashPath == "" {
		return i.Sys != nil
	}
	_, err := os.Lstat(i.TrashPath)
	return err == nil
}
