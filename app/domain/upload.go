package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// UploadGrant is the ephemeral result of the mint phase: a short-lived
// write capability URL plus the storage key it is scoped to. It is never
// persisted; it exists only in the request/response cycle that minted it.
type UploadGrant struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

const fileKeyPrefix = "uploads/"

// fileKeyPattern matches keys this service mints: uploads/{epochMillis}-{filename}.
// Confirmation updates and read-capability mints reject anything else.
var fileKeyPattern = regexp.MustCompile(`^uploads/\d+-[A-Za-z0-9][A-Za-z0-9._-]*$`)

// filenameSanitizer collapses anything outside a conservative charset so
// the original filename can be embedded in a storage key safely.
var filenameSanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewFileKey derives a storage key from the upload time and the original
// filename. Wall-clock millis plus the filename is a cheap uniqueness
// heuristic, not a guarantee: two uploads of the same filename in the same
// millisecond collide.
func NewFileKey(now time.Time, filename string) string {
	return fmt.Sprintf("%s%d-%s", fileKeyPrefix, now.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename reduces a client-supplied filename to a safe charset
// and strips any path components.
func SanitizeFilename(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	filename = filenameSanitizer.ReplaceAllString(filename, "_")
	filename = strings.Trim(filename, "._-")
	if filename == "" {
		return "file"
	}
	return filename
}

// ValidFileKey reports whether key has the format this service itself
// issues. It says nothing about whether an object exists at the key.
func ValidFileKey(key string) bool {
	return fileKeyPattern.MatchString(key)
}
