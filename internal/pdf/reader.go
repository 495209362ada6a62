package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts the text layer of transcript PDFs
type Reader struct {
	maxFileSize int64
	maxTextSize int
	validator   *Validator
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
		validator:   NewValidator(maxFileSize),
	}
}

// ReadFile extracts the text of every page of a PDF file. Pages are laid out
// line by line and each is followed by a newline.
func (r *Reader) ReadFile(req ReadRequest) (*ReadResult, error) {
	if req.Path == "" {
		return nil, ErrEmptyPath
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	content, empty, err := r.extractTextContent(pdfReader)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	return &ReadResult{
		Path:       req.Path,
		Content:    content,
		Pages:      pdfReader.NumPage(),
		EmptyPages: empty,
		Size:       fileInfo.Size(),
	}, nil
}

// extractTextContent concatenates the text of all pages, newline-terminated.
// It also reports how many pages had no text.
func (r *Reader) extractTextContent(pdfReader *pdf.Reader) (string, int, error) {
	var builder strings.Builder
	empty := 0

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		text, err := pageText(pdfReader.Page(pageNum))
		if err != nil || strings.TrimSpace(text) == "" {
			// a bad page should not cost the rest of the transcript
			empty++
			continue
		}

		if builder.Len()+len(text)+1 > r.maxTextSize {
			return "", empty, fmt.Errorf("text content exceeds %d bytes", r.maxTextSize)
		}
		builder.WriteString(text)
		builder.WriteByte('\n')
	}

	if builder.Len() == 0 {
		return "", empty, fmt.Errorf("no text content could be extracted from PDF")
	}

	return builder.String(), empty, nil
}

// pageText lays out the positioned glyphs of a page, falling back to the
// library's plain-text rendering when the page yields no glyphs.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page content: %v", rec)
		}
	}()

	if page.V.IsNull() {
		return "", nil
	}

	if text = layoutText(page.Content().Text); text != "" {
		return text, nil
	}
	return page.GetPlainText(nil)
}
