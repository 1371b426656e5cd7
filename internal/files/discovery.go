package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"atlascli/internal/config"
	"atlascli/pkg/contracts/conventions"
)

// FileInfo describes a discovered data file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time

	// Date is the trading date encoded in the filename; zero when the name
	// carries none.
	Date time.Time
}

var snapshotNamePattern = regexp.MustCompile(config.DailySnapshotPattern)

// SnapshotDate extracts the trading date encoded in a daily snapshot
// filename. The second return is false when the base name does not follow
// the YYYY-MM-DD_Astock.csv convention or the captured date is not a real
// calendar date.
func SnapshotDate(path string) (time.Time, bool) {
	m := snapshotNamePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(conventions.DateFormat, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Discovery provides file discovery operations over a base directory.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindCSVFiles returns every CSV file directly under dir, sorted by name.
// History directories hold one file per instrument, so name order gives a
// deterministic load order.
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		fi := FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if date, ok := SnapshotDate(entry.Name()); ok {
			fi.Date = date
		}
		files = append(files, fi)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// FindSnapshotFiles walks dir recursively and returns every file matching
// the snapshot naming convention, sorted by trading date. The walk covers
// the per-year layout without the caller enumerating year directories.
func (d *Discovery) FindSnapshotFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	var files []FileInfo
	walkErr := filepath.WalkDir(fullPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		date, ok := SnapshotDate(entry.Name())
		if !ok {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Date:    date,
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", fullPath, walkErr)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Date.Before(files[j].Date)
	})

	return files, nil
}

// FindFilesByPattern finds files matching a glob pattern under dir.
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	searchPattern := filepath.Join(d.resolve(dir), pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}

		fi := FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if date, ok := SnapshotDate(fi.Name); ok {
			fi.Date = date
		}
		files = append(files, fi)
	}

	return files, nil
}

// SnapshotsForYear returns the snapshot files in dir's per-year
// subdirectory, sorted by trading date.
func (d *Discovery) SnapshotsForYear(dir string, year int) ([]FileInfo, error) {
	pattern := filepath.Join(fmt.Sprintf("%04d", year), "*"+config.DailySnapshotSuffix)

	matches, err := d.FindFilesByPattern(dir, pattern)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, fi := range matches {
		if fi.Date.IsZero() || fi.Date.Year() != year {
			continue
		}
		files = append(files, fi)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Date.Before(files[j].Date)
	})

	return files, nil
}

// LatestSnapshot returns the most recently dated snapshot file under dir.
// The filename date decides recency, not file modification time. The second
// return is false when dir holds no snapshot files.
func (d *Discovery) LatestSnapshot(dir string) (FileInfo, bool, error) {
	files, err := d.FindSnapshotFiles(dir)
	if err != nil {
		return FileInfo{}, false, err
	}
	if len(files) == 0 {
		return FileInfo{}, false, nil
	}
	return files[len(files)-1], true, nil
}
