package xdg

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/ini.v1"

	"github.com/FreeSlave/trashcan/internal/env"
)

// Relative locations of the KDE trash desktop-entry file inside each
// system data directory, in probe order.
var directoryTrashFiles = []string{
	"kio_desktop/directory.trash",
	filepath.Join("kde4", "apps", "kio_desktop", "directory.trash"),
}

var displayNameOnce = sync.OnceValue(func() string {
	return lookupDisplayName(env.DataDirs(), localeVariants(messagesLocale()))
})

// DisplayName returns the localized human name of the trash can, or ""
// when no desktop-entry file provides one. The lookup runs once; later
// calls return the cached result.
func DisplayName() string {
	return displayNameOnce()
}

// lookupDisplayName probes the desktop-entry files under each data
// directory and picks the best-matching Name for the locale variants.
func lookupDisplayName(dataDirs, variants []string) string {
	for _, dir := range dataDirs {
		for _, rel := range directoryTrashFiles {
			path := filepath.Join(dir, rel)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if name := desktopEntryName(path, variants); name != "" {
				return name
			}
		}
	}
	return ""
}

// desktopEntryName reads the [Desktop Entry] group of a desktop-entry
// file and returns Name[variant] for the first matching variant, falling
// back to the unlocalized Name.
func desktopEntryName(path string, variants []string) string {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return ""
	}
	section := cfg.Section("Desktop Entry")
	for _, variant := range variants {
		if key, err := section.GetKey("Name[" + variant + "]"); err == nil {
			if v := key.String(); v != "" {
				return v
			}
		}
	}
	if key, err := section.GetKey("Name"); err == nil {
		return key.String()
	}
	return ""
}

// messagesLocale returns the message locale per POSIX precedence:
// LC_ALL, then LC_MESSAGES, then LANG.
func messagesLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// localeVariants expands a locale string of the form
// lang_COUNTRY.ENCODING@MODIFIER into the freedesktop lookup order:
// lang_COUNTRY@MODIFIER, lang_COUNTRY, lang@MODIFIER, lang.
// The encoding part never participates in matching.
func localeVariants(locale string) []string {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return nil
	}

	var modifier string
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		modifier = locale[i+1:]
		locale = locale[:i]
	}
	if i := strings.IndexByte(locale, '.'); i >= 0 {
		locale = locale[:i]
	}

	lang := locale
	var country string
	if i := strings.IndexByte(locale, '_'); i >= 0 {
		lang = locale[:i]
		country = locale[i+1:]
	}
	if lang == "" {
		return nil
	}

	var variants []string
	if country != "" && modifier != "" {
		variants = append(variants, lang+"_"+country+"@"+modifier)
	}
	if country != "" {
		variants = append(variants, lang+"_"+country)
	}
	if modifier != "" {
		variants = append(variants, lang+"@"+modifier)
	}
	variants = append(variants, lang)
	return variants
}
