package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// SubjectFile is a discovered experiment log and the subject it belongs to.
type SubjectFile struct {
	FileInfo
	Subject int
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSubjectFiles lists <prefix>_<id><ext> files in dir ordered by subject id.
func (d *Discovery) FindSubjectFiles(dir, prefix, ext string) ([]SubjectFile, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var found []SubjectFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		subject, ok := ParseSubjectFileName(entry.Name(), prefix, ext)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, SubjectFile{
			FileInfo: FileInfo{
				Path:    filepath.Join(fullPath, entry.Name()),
				Name:    entry.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			},
			Subject: subject,
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Subject < found[j].Subject
	})

	return found, nil
}

// FindSubjects returns the subject ids present in dir, ascending.
func (d *Discovery) FindSubjects(dir, prefix, ext string) ([]int, error) {
	found, err := d.FindSubjectFiles(dir, prefix, ext)
	if err != nil {
		return nil, err
	}
	subjects := make([]int, len(found))
	for i, f := range found {
		subjects[i] = f.Subject
	}
	return subjects, nil
}
