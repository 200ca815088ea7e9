package normalize

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ContentFingerprint derives a stable identity for a set of manifest files.
// Files are ordered by path and stripped of all whitespace before hashing,
// so re-uploading the same composition with reordered files or different
// formatting produces the same fingerprint.
func ContentFingerprint(files []ManifestFile) string {
	sorted := make([]ManifestFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	hash := sha256.New()
	for _, file := range sorted {
		hash.Write(whitespacePattern.ReplaceAll(file.Content, nil))
	}
	return base64.StdEncoding.EncodeToString(hash.Sum(nil))
}

// DigitalFootprint records which files a device composition was built from,
// one hash per file, so a later upload can be traced back to its inputs.
func DigitalFootprint(files []ManifestFile, now time.Time) string {
	entries := make([]string, 0, len(files))
	for _, file := range files {
		sum := sha256.Sum256(file.Content)
		entries = append(entries, fmt.Sprintf("File: %s\nSHA-256: %s\n\nGenerated At: %s",
			file.Path, hex.EncodeToString(sum[:]), now.Format(time.RFC3339)))
	}
	return strings.Join(entries, "\n\n")
}
