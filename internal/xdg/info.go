// Package xdg implements the freedesktop.org Trash Can Specification:
// per-volume trash placement, .trashinfo metadata, enumeration across all
// reachable trash roots, and restore/erase of individual items.
package xdg

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/FreeSlave/trashcan/internal/trash"
)

const (
	trashInfoHeader = "[Trash Info]"
	trashInfoExt    = ".trashinfo"

	// Local-time ISO 8601 extended form, second precision.
	timeFormat = "2006-01-02T15:04:05"
)

// Info is the parsed contents of a .trashinfo file.
type Info struct {
	// Path is the original path as recorded, URL-decoded. Absolute for
	// home-trash items, relative to the volume root for per-volume items.
	Path string

	// DeletionDate is when the file was moved to trash. Zero when the
	// recorded date could not be parsed.
	DeletionDate time.Time
}

// Marshal renders the [Trash Info] group with an encoded Path and the
// deletion date truncated to whole seconds.
func (i *Info) Marshal() string {
	var b strings.Builder
	fmt.Fprintln(&b, trashInfoHeader)
	fmt.Fprintf(&b, "Path=%s\n", encodeInfoPath(i.Path))
	fmt.Fprintf(&b, "DeletionDate=%s\n", i.DeletionDate.Format(timeFormat))
	return b.String()
}

// ParseInfo reads a .trashinfo stream leniently. Only the [Trash Info]
// group is recognised; reading stops once that group ends. Comments,
// unknown groups and unknown keys are tolerated. A missing or empty Path
// makes the file corrupt; an unparsable DeletionDate leaves the date zero.
func ParseInfo(r io.Reader) (*Info, error) {
	scanner := bufio.NewScanner(r)
	info := &Info{}
	var inGroup, groupSeen bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if inGroup {
				// The Trash Info group ended.
				break
			}
			if line == trashInfoHeader {
				inGroup = true
				groupSeen = true
			}
			continue
		}

		if !inGroup {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "Path":
			path, err := url.PathUnescape(value)
			if err != nil {
				return nil, fmt.Errorf("%w: bad Path encoding: %v", trash.ErrCorruptInfo, err)
			}
			info.Path = path
		case "DeletionDate":
			date, err := time.ParseInLocation(timeFormat, value, time.Local)
			if err == nil {
				info.DeletionDate = date
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", trash.ErrCorruptInfo, err)
	}
	if !groupSeen {
		return nil, fmt.Errorf("%w: missing %s group", trash.ErrCorruptInfo, trashInfoHeader)
	}
	if info.Path == "" {
		return nil, fmt.Errorf("%w: missing Path", trash.ErrCorruptInfo)
	}

	return info, nil
}

// encodeInfoPath percent-encodes a path for the Path= key. Every byte
// outside the RFC 3986 unreserved set is encoded; the path separator is
// kept so the value stays readable.
func encodeInfoPath(path string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '.' || c == '_' || c == '~' || c == '/':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0x0f])
		}
	}
	return b.String()
}

// infoNameFor returns the info file leaf name for a payload leaf name.
func infoNameFor(leaf string) string {
	return leaf + trashInfoExt
}

// payloadNameFor returns the payload leaf name for an info file name, or
// "" when the name does not carry the .trashinfo suffix.
func payloadNameFor(infoName string) string {
	stem := strings.TrimSuffix(infoName, trashInfoExt)
	if stem == infoName || stem == "" {
		return ""
	}
	return stem
}

// numberedName mints the n-th alternative leaf name for base by inserting
// the counter before the extension: "stem N.ext". Extensionless names
// become "name N" with no trailing dot.
func numberedName(base string, n int) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		// Dotfiles keep their name whole.
		stem, ext = base, ""
	}
	return fmt.Sprintf("%s %d%s", stem, n, ext)
}
