package ingest

import (
	"strings"

	"flowlist/internal/tasktree"
)

// DefaultBatchSize is the number of lines per classification request.
const DefaultBatchSize = 30

// SplitResult holds the lines that still need classification.
type SplitResult struct {
	Lines []string
	// DroppedExisting counts lines already present in the folder collection.
	DroppedExisting int
	// DroppedDuplicate counts repeats within the input itself.
	DroppedDuplicate int
}

// Batch is one contiguous slice of lines sent in a single request.
type Batch struct {
	Index int
	Total int
	Lines []string
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Split breaks raw input into trimmed, non-empty lines in input order. Lines
// whose lowercase form appears in known (see tasktree.KnownTexts) or earlier
// in the same input are dropped.
func Split(raw string, known map[string]struct{}) SplitResult {
	var result SplitResult
	seen := make(map[string]struct{})
	for _, line := range strings.Split(lineBreaks.Replace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := tasktree.TextKey(line)
		if _, ok := known[key]; ok {
			result.DroppedExisting++
			continue
		}
		if _, ok := seen[key]; ok {
			result.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}
		result.Lines = append(result.Lines, line)
	}
	return result
}

// Partition cuts lines into consecutive batches of at most size lines. A
// non-positive size uses DefaultBatchSize.
func Partition(lines []string, size int) []Batch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(lines) == 0 {
		return nil
	}
	total := (len(lines) + size - 1) / size
	batches := make([]Batch, 0, total)
	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		batches = append(batches, Batch{
			Index: len(batches),
			Total: total,
			Lines: append([]string(nil), lines[start:end]...),
		})
	}
	return batches
}
