package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// defaultRecordFileSuffix is the default suffix for history record files.
const defaultRecordFileSuffix = ".history.json"

// Locator provides Build and List methods for locating history record files.
type Locator interface {
	// Build builds the path of a record file for the given recordID.
	Build(baseDir, recordID string) string
	// List lists all record IDs under baseDir.
	List(baseDir string) ([]string, error)
}

// NewLocator returns the default Locator implementation.
func NewLocator() Locator {
	return &locator{}
}

// locator is the default Locator implementation.
type locator struct{}

// Build builds the path of a record file.
func (l *locator) Build(baseDir, recordID string) string {
	return filepath.Join(baseDir, recordID+defaultRecordFileSuffix)
}

// List lists all record IDs under baseDir.
func (l *locator) List(baseDir string) ([]string, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), defaultRecordFileSuffix) {
			ids = append(ids, strings.TrimSuffix(entry.Name(), defaultRecordFileSuffix))
		}
	}
	return ids, nil
}
