package images

import (
	"errors"
	"fmt"
)

var ErrUnsupportedImage = errors.New("unsupported image")

// ImageIOError reports a failed read, write or delete of an image object.
type ImageIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *ImageIOError) Error() string {
	return fmt.Sprintf("image %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ImageIOError) Unwrap() error { return e.Err }

func ioErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &ImageIOError{Op: op, Path: path, Err: err}
}
