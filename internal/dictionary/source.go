// Package dictionary reads newline-delimited word lists for the anagram index.
package dictionary

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Aman-CERP/anagrams/configs"
	"github.com/Aman-CERP/anagrams/internal/errors"
)

// EmbeddedName is the Name of the built-in word list source.
const EmbeddedName = "embedded"

// Source is a single newline-delimited word list.
type Source interface {
	// Name identifies the source in logs and status output.
	Name() string
	// Open returns a reader over the list. Unavailable input is reported as
	// an *errors.AppError in the IO category.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads words from a file on disk.
type FileSource struct {
	Path string
}

// File returns a Source for the file at path.
func File(path string) FileSource {
	return FileSource{Path: path}
}

// Name returns the file path.
func (f FileSource) Name() string {
	return f.Path
}

// Open opens the file.
func (f FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.Path)
	switch {
	case err == nil:
		return file, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.DictionaryNotFound(f.Path, err)
	case stderrors.Is(err, fs.ErrPermission):
		return nil, errors.New(errors.ErrCodeDictionaryPermission, "permission denied reading dictionary: "+f.Path, err).
			WithDetail("path", f.Path)
	default:
		return nil, errors.New(errors.ErrCodeDictionaryRead, "failed to open dictionary: "+f.Path, err).
			WithDetail("path", f.Path)
	}
}

// stringSource serves an in-memory list.
type stringSource struct {
	name    string
	content string
}

// FromString returns a Source over content, identified by name.
func FromString(name, content string) Source {
	return stringSource{name: name, content: content}
}

// Embedded returns the word list compiled into the binary.
func Embedded() Source {
	return FromString(EmbeddedName, configs.DefaultWords)
}

func (s stringSource) Name() string {
	return s.name
}

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.content)), nil
}
