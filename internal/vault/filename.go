package vault

import "strings"

// sanitizeReplacer maps characters that are unsafe in filenames on at
// least one supported platform to underscores.
var sanitizeReplacer = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	"*", "_",
	"?", "_",
	":", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFilename converts a page title or tag into a safe base filename
// (without extension). Surrounding whitespace is trimmed first so that
// " Gandalf " and "Gandalf" map to the same file.
func SanitizeFilename(title string) string {
	return sanitizeReplacer.Replace(strings.TrimSpace(title))
}
