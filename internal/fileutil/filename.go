package fileutil

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLen is the longest file name SafeFilename produces, in bytes,
// extension included.
const MaxFilenameLen = 255

var (
	invalidFilenameRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	filenameSpaceRe   = regexp.MustCompile(`\s+`)
)

var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SafeFilename turns a page name into a file name that is valid on Linux,
// macOS and Windows. Accents are folded to ASCII, anything else outside
// ASCII is dropped, and characters Windows rejects become "-". An empty
// result becomes "page". Windows device names and names already present
// in existing get a numeric suffix: "CON" -> "CON_1.txt", a second
// "About" -> "About_1.txt".
func SafeFilename(name, ext string, existing map[string]bool) string {
	maxBase := MaxFilenameLen - len(ext)
	if maxBase < 1 {
		if len(ext) > MaxFilenameLen {
			ext = ext[:MaxFilenameLen]
		}
		maxBase = MaxFilenameLen - len(ext)
	}

	root := truncateBase(normalizeBase(name), maxBase)
	if root == "" {
		root = truncateBase("page", maxBase)
	}

	base := root
	n := 0
	if windowsReserved[strings.ToUpper(root)] {
		n = 1
		base = applySuffix(root, n, maxBase)
	}

	filename := base + ext
	for existing[filename] {
		n++
		filename = applySuffix(root, n, maxBase) + ext
	}
	return filename
}

func normalizeBase(name string) string {
	name = ToASCII(norm.NFKD.String(name))
	name = invalidFilenameRe.ReplaceAllString(name, "-")
	name = filenameSpaceRe.ReplaceAllString(name, " ")
	return strings.Trim(strings.TrimSpace(name), " .")
}

func truncateBase(base string, max int) string {
	if max < 1 {
		return ""
	}
	if len(base) > max {
		base = base[:max]
	}
	return strings.TrimRight(base, " .")
}

func applySuffix(base string, n, maxBase int) string {
	suffix := fmt.Sprintf("_%d", n)
	maxRoot := maxBase - len(suffix)
	root := truncateBase(base, maxRoot)
	if root == "" {
		root = truncateBase("page", maxRoot)
	}
	return root + suffix
}
