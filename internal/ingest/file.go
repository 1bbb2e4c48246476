package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"flowlist/internal/archive"
	"flowlist/internal/tasktree"
)

var (
	// ErrEmptyInput is returned when input holds no task lines or folders.
	ErrEmptyInput = errors.New("input is empty")
	// ErrUnsupportedFile is returned for file types other than text and zip.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// Input is the decoded content of an ingest source. Exactly one of Text or
// Folders is set.
type Input struct {
	Source  string
	Text    string
	Folders []tasktree.Folder
}

// IsArchive reports whether the input carries pre-bucketed folders.
func (in Input) IsArchive() bool {
	return in.Folders != nil
}

// ReadOptions configures file decoding.
type ReadOptions struct {
	// Ignore holds archive entry globs to skip.
	Ignore []string
	// Logger receives archive consistency warnings.
	Logger *slog.Logger
}

// ReadFile decodes path by extension: .txt, .md or no extension yield raw
// text; .zip yields archive folders. A path of "-" reads text from stdin.
func ReadFile(path string, opts ReadOptions) (Input, error) {
	if path == "-" {
		return ReadText("stdin", os.Stdin)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".txt", ".md":
		f, err := os.Open(path)
		if err != nil {
			return Input{}, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return ReadText(path, f)
	case ".zip":
		return readArchive(path, opts)
	default:
		return Input{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}
}

// ReadText reads raw task text from r.
func ReadText(source string, r io.Reader) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("read %s: %w", source, err)
	}
	text := string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if strings.TrimSpace(text) == "" {
		return Input{}, fmt.Errorf("%s: %w", source, ErrEmptyInput)
	}
	return Input{Source: source, Text: text}, nil
}

func readArchive(path string, opts ReadOptions) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Input{}, fmt.Errorf("stat archive: %w", err)
	}
	folders, err := archive.Read(f, info.Size(), archive.ReadOptions{Ignore: opts.Ignore, Logger: opts.Logger})
	if err != nil {
		return Input{}, err
	}
	if len(folders) == 0 {
		return Input{}, fmt.Errorf("%s: %w", path, ErrEmptyInput)
	}
	return Input{Source: path, Folders: folders}, nil
}
