package shoko

import "strings"

// NormalizePath converts a user-provided path to the slash-separated form
// used for entry paths.
//
// It performs the following transformations:
//   - Converts backslashes to slashes: `docs\a.md` → "docs/a.md"
//   - Strips leading slashes: "/etc/nginx" → "etc/nginx"
//   - Strips trailing slashes: "etc/nginx/" → "etc/nginx"
//   - Collapses consecutive slashes: "etc//nginx" → "etc/nginx"
//   - Drops "." elements: "./a/./b" → "a/b"
//
// A path with no remaining elements normalizes to "". Elements named ".."
// are preserved; extraction to disk rejects them.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")

	parts := strings.Split(p, "/")
	result := parts[:0] // reuse backing array
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return strings.Join(result, "/")
}

// ValidatePath reports whether p can name an entry. Entry paths are
// compared byte for byte; the only rejected path is the empty one.
func ValidatePath(p string) error {
	if p == "" {
		return ErrInvalidPath
	}
	return nil
}
