package pipeline

import "strings"

// imageExtensions lists the accepted file suffixes. Matching is case-sensitive,
// so CAT.PNG is not an image candidate.
var imageExtensions = []string{".jpg", ".jpeg", ".png"}

// HasImageExtension reports whether the file name carries an accepted image
// extension.
func HasImageExtension(name string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// SizeWithinLimit reports whether a candidate's byte size is within maxBytes.
func SizeWithinLimit(sizeBytes, maxBytes int64) bool {
	return sizeBytes <= maxBytes
}
