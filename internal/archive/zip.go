package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"flowlist/internal/logging"
	"flowlist/internal/tasktree"
	"flowlist/internal/textutil"
)

const (
	// DefaultUnsortedDir holds folders without a tier.
	DefaultUnsortedDir = "Unsorted"
	untitledName       = "Untitled"
	maxEntryBytes      = 8 << 20
)

// DefaultIgnore lists junk paths archivers add that are never folders.
var DefaultIgnore = []string{"__MACOSX/**", "**/.DS_Store", "**/._*"}

// ErrEntryTooLarge is returned for entries larger than the import limit.
var ErrEntryTooLarge = errors.New("archive entry too large")

var (
	countSuffixPattern = regexp.MustCompile(`\s*\(\d+\)$`)
	tierPrefixPattern  = regexp.MustCompile(`^\[([A-Za-z]+)\]\s*`)
)

// WriteOptions controls archive layout.
type WriteOptions struct {
	UnsortedDir string
	// IncludeCounts appends " (N)" with the top-level task count to entry names.
	IncludeCounts bool
}

// ReadOptions controls archive import.
type ReadOptions struct {
	// Ignore holds doublestar globs matched against entry paths.
	Ignore []string
	// Logger receives a warning for each entry whose " (N)" name suffix
	// disagrees with the number of top-level tasks it holds.
	Logger *slog.Logger
}

// Write encodes folders as a zip archive. Directories appear in tier order
// with unrated folders last; folders keep collection order within a tier.
func Write(w io.Writer, folders []tasktree.Folder, opts WriteOptions) error {
	unsorted := strings.TrimSpace(opts.UnsortedDir)
	if unsorted == "" {
		unsorted = DefaultUnsortedDir
	}

	zw := zip.NewWriter(w)
	used := make(map[string]int)
	order := append(append([]tasktree.Tier(nil), tasktree.Tiers...), tasktree.TierUnrated)
	for _, tier := range order {
		dir := unsorted
		if tier.Rated() {
			dir = tier.String()
		}
		for _, f := range folders {
			if f.Tier != tier {
				continue
			}
			name := entryName(f, opts.IncludeCounts)
			full := path.Join(dir, name+".txt")
			if n := used[strings.ToLower(full)]; n > 0 {
				full = path.Join(dir, fmt.Sprintf("%s-%d.txt", name, n+1))
			}
			used[strings.ToLower(path.Join(dir, name+".txt"))]++

			header := &zip.FileHeader{Name: full, Method: zip.Deflate}
			entry, err := zw.CreateHeader(header)
			if err != nil {
				return fmt.Errorf("create entry %s: %w", full, err)
			}
			if _, err := io.WriteString(entry, FormatTasks(f.Tasks)); err != nil {
				return fmt.Errorf("write entry %s: %w", full, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func entryName(f tasktree.Folder, includeCount bool) string {
	name := textutil.SanitizeFileName(f.Name)
	if name == "" {
		name = untitledName
	}
	if includeCount {
		name = fmt.Sprintf("%s (%d)", name, len(f.Tasks))
	}
	return name
}

// Read decodes a zip archive produced by Write or assembled by hand. Entries
// that are directories, match an ignore glob, or are not .txt/.md files are
// skipped. Entries that resolve to the same folder name are merged.
func Read(r io.ReaderAt, size int64, opts ReadOptions) ([]tasktree.Folder, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	collection := tasktree.NewCollection(nil)
	for _, file := range zr.File {
		name := strings.ReplaceAll(file.Name, "\\", "/")
		if file.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			continue
		}
		if ignored(name, opts.Ignore) {
			continue
		}
		ext := strings.ToLower(path.Ext(name))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		folder := folderFromPath(name)
		content, err := readEntry(file)
		if err != nil {
			return nil, err
		}
		folder.Tasks = ParseTasks(content)
		if want, ok := countFromName(name); ok && want != len(folder.Tasks) && opts.Logger != nil {
			opts.Logger.Warn("archive entry count mismatch",
				logging.String("entry", name),
				logging.Int("named", want),
				logging.Int("parsed", len(folder.Tasks)),
			)
		}
		collection.Merge(folder)
	}
	return collection.Folders(), nil
}

func readEntry(file *zip.File) (string, error) {
	if file.UncompressedSize64 > maxEntryBytes {
		return "", fmt.Errorf("%w: %s", ErrEntryTooLarge, file.Name)
	}
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open entry %s: %w", file.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return "", fmt.Errorf("read entry %s: %w", file.Name, err)
	}
	if len(data) > maxEntryBytes {
		return "", fmt.Errorf("%w: %s", ErrEntryTooLarge, file.Name)
	}
	return string(data), nil
}

func ignored(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// folderFromPath derives the folder name and tier from an entry path. The
// tier comes from a "[S] " file name prefix when present, else from the
// nearest enclosing directory whose name parses as a tier.
func folderFromPath(name string) tasktree.Folder {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))

	tier := tasktree.TierUnrated
	if m := tierPrefixPattern.FindStringSubmatch(base); m != nil {
		if parsed, err := tasktree.ParseTier(m[1]); err == nil {
			tier = parsed
			base = base[len(m[0]):]
		}
	}
	if !tier.Rated() {
		dirs := strings.Split(path.Dir(name), "/")
		for i := len(dirs) - 1; i >= 0; i-- {
			if parsed, err := tasktree.ParseTier(dirs[i]); err == nil && parsed.Rated() {
				tier = parsed
				break
			}
		}
	}

	base = strings.TrimSpace(countSuffixPattern.ReplaceAllString(base, ""))
	if base == "" {
		base = untitledName
	}
	f := tasktree.NewFolder(base)
	f.Tier = tier
	return f
}

// countFromName returns the " (N)" suffix of an entry name, if any.
func countFromName(name string) (int, bool) {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	m := countSuffixPattern.FindString(base)
	if m == "" {
		return 0, false
	}
	digits := strings.Trim(strings.TrimSpace(m), "()")
	n, err := strconv.Atoi(digits)
	return n, err == nil
}
