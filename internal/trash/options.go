package trash

// Options controls where the freedesktop backend is allowed to place a
// trashed file. The flags are independent; other platforms ignore them.
type Options struct {
	// UseTopDirs enables per-volume trash directories at all. When off,
	// everything goes to the home trash.
	UseTopDirs bool

	// CheckStickyBit requires the sticky bit on $topdir/.Trash before the
	// administrator-provided directory is trusted.
	CheckStickyBit bool

	// FallbackToUserDir tries $topdir/.Trash-$uid when the
	// administrator-provided $topdir/.Trash/$uid fails its checks.
	FallbackToUserDir bool

	// FallbackToHomeDir falls back to the home trash when both per-volume
	// attempts fail.
	FallbackToHomeDir bool
}

// DefaultOptions returns the option set with all flags on.
func DefaultOptions() Options {
	return Options{
		UseTopDirs:        true,
		CheckStickyBit:    true,
		FallbackToUserDir: true,
		FallbackToHomeDir: true,
	}
}
