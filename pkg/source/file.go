package source

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/coauthornet/pkg/errors"
	"github.com/matzehuels/coauthornet/pkg/graph"
)

// File reads a JSON payload from disk.
type File struct {
	Path string
}

func newFile(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	return &File{Path: path}, nil
}

func (f *File) Load(ctx context.Context) (graph.Payload, error) {
	if err := ctx.Err(); err != nil {
		return graph.Payload{}, err
	}
	fh, err := os.Open(f.Path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return graph.Payload{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", f.Path)
	}
	if err != nil {
		return graph.Payload{}, errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s", f.Path)
	}
	defer fh.Close()
	return decode(fh, f.Path)
}

// Reader reads a JSON payload from an arbitrary stream.
type Reader struct {
	R    io.Reader
	Name string
}

func (r *Reader) Load(ctx context.Context) (graph.Payload, error) {
	if err := ctx.Err(); err != nil {
		return graph.Payload{}, err
	}
	return decode(r.R, r.Name)
}

func decode(r io.Reader, name string) (graph.Payload, error) {
	p, err := graph.ReadPayload(r)
	if err != nil {
		return graph.Payload{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", name)
	}
	return p, nil
}
