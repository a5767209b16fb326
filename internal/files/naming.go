package files

import (
	"strconv"
	"strings"
)

// DefaultExtension is the extension of experiment log files.
const DefaultExtension = ".dat"

// SubjectFileName builds the path of one subject's log: base + "_" + id + ext.
func SubjectFileName(base string, subject int, ext string) string {
	return base + "_" + strconv.Itoa(subject) + ext
}

// ParseSubjectFileName extracts the subject id from a file name built by
// SubjectFileName. The prefix is matched on the base name only.
func ParseSubjectFileName(name, prefix, ext string) (int, bool) {
	if !strings.HasPrefix(name, prefix+"_") || !strings.HasSuffix(name, ext) {
		return 0, false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, prefix+"_"), ext)
	if id == "" {
		return 0, false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	subject, err := strconv.Atoi(id)
	if err != nil {
		return 0, false
	}
	return subject, true
}

// ForceFileName is the force-sensor counterpart of SubjectFileName.
func ForceFileName(base string, subject int, ext string) string {
	return base + "_" + strconv.Itoa(subject) + "_force" + ext
}
