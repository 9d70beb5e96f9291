package sanitize

import (
	"regexp"
	"strings"
)

var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// Filename removes characters that are not allowed in file and folder names
func Filename(title string) string {
	// Remove illegal chars
	title = illegalChars.ReplaceAllString(title, "")

	// Trim spaces & dots
	return strings.Trim(title, " .")
}
