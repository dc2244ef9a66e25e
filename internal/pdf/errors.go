package pdf

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPath  = errors.New("path cannot be empty")
	ErrNotPDF     = errors.New("file is not a PDF")
	ErrEmptyFile  = errors.New("file is empty")
	ErrTooLarge   = errors.New("file too large")
	ErrEncrypted  = errors.New("document requires a password")
	ErrIsDir      = errors.New("path is a directory, not a file")
	ErrNoPages    = errors.New("document has no pages")
	ErrPagePanics = errors.New("page content could not be decoded")
)

// OpenError records which stage of opening a document failed.
type OpenError struct {
	Path string `json:"path"`
	Op   string `json:"operation"`
	Err  error  `json:"error"`
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
