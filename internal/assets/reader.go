package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/desertthunder/assetd/internal/shared"
)

// ErrorKind tags a [ReadError].
type ErrorKind int

const (
	KindNotFound ErrorKind = iota // the file does not exist
	KindIO                        // permission, is-a-directory, disk or cancellation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	default:
		return "io failure"
	}
}

// ReadError is returned by a [Reader]. It matches [shared.ErrAssetNotFound] or
// [shared.ErrAssetIO] under [errors.Is], as well as the underlying cause.
type ReadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error {
	if e.Kind == KindNotFound {
		return []error{shared.ErrAssetNotFound, e.Err}
	}
	return []error{shared.ErrAssetIO, e.Err}
}

// Reader loads whole files.
type Reader interface {
	ReadAsset(ctx context.Context, path string) ([]byte, error)
}

// FileReader reads from the local filesystem.
type FileReader struct{}

type readResult struct {
	data []byte
	err  error
}

// ReadAsset reads path on its own goroutine and waits for it or for ctx.
//
// A context that is already done fails without touching the file. When ctx ends
// during the read it is abandoned; the goroutine still finishes and
// releases the file handle.
func (FileReader) ReadAsset(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ReadError{Kind: KindIO, Path: path, Err: err}
	}

	done := make(chan readResult, 1)
	go func() {
		data, err := os.ReadFile(path)
		done <- readResult{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, classify(path, res.err)
		}
		return res.data, nil
	case <-ctx.Done():
		return nil, &ReadError{Kind: KindIO, Path: path, Err: ctx.Err()}
	}
}

func classify(path string, err error) *ReadError {
	if errors.Is(err, fs.ErrNotExist) {
		return &ReadError{Kind: KindNotFound, Path: path, Err: err}
	}
	return &ReadError{Kind: KindIO, Path: path, Err: err}
}
