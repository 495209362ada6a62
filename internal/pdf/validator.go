package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Sentinel causes of a rejected transcript file
var (
	ErrEmptyPath    = errors.New("path cannot be empty")
	ErrNotFound     = errors.New("file does not exist")
	ErrIsDirectory  = errors.New("path is a directory, not a file")
	ErrNotPDF       = errors.New("file is not a PDF")
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file too large")
	ErrUnreadable   = errors.New("invalid PDF file")
	ErrNoPages      = errors.New("PDF has no pages")
)

// Validator decides whether a file can be handed to the reader
type Validator struct {
	maxFileSize int64
}

// NewValidator returns a validator rejecting files larger than maxFileSize
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidateFile reports whether req.Path is a readable PDF. A rejected file is
// described in the result's Message; the error is reserved for failures of
// the check itself.
func (v *Validator) ValidateFile(req ReadRequest) (*ValidateResult, error) {
	result := &ValidateResult{Path: req.Path}

	if err := v.check(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // a rejected file is a result
	}

	result.Valid = true
	return result, nil
}

// IsValidPDF is ValidateFile reduced to a bool
func (v *Validator) IsValidPDF(path string) bool {
	return v.check(path) == nil
}

// check stats the file, applies ValidateFileInfo and finally parses the
// cross-reference table to make sure at least one page is reachable
func (v *Validator) check(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case err != nil:
		return fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(path, info); err != nil {
		return err
	}

	pages, err := countPages(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if pages == 0 {
		return fmt.Errorf("%w: %s", ErrNoPages, path)
	}
	return nil
}

// ValidateFileInfo applies the checks that need only the file's metadata
func (v *Validator) ValidateFileInfo(path string, info os.FileInfo) error {
	switch {
	case info.IsDir():
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	case !isPDFName(path):
		return fmt.Errorf("%w: %s", ErrNotPDF, path)
	case info.Size() == 0:
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	case info.Size() > v.maxFileSize:
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, info.Size(), v.maxFileSize)
	}
	return nil
}

// countPages opens path with the text reader. The reader panics on some
// malformed page trees; that is reported as an error.
func countPages(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("malformed page tree: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return r.NumPage(), nil
}

func isPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
