package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Inspector reads the structure of a PDF with pdfcpu: page count, header
// version and encryption. It does not touch the text layer.
type Inspector struct {
	validator *Validator
}

// NewInspector creates an inspector with the specified constraints
func NewInspector(maxFileSize int64) *Inspector {
	return &Inspector{validator: NewValidator(maxFileSize)}
}

// Inspect describes the PDF at req.Path
func (i *Inspector) Inspect(req ReadRequest) (*InspectResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", req.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := i.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF structure: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	result := &InspectResult{
		Path:         req.Path,
		Size:         fileInfo.Size(),
		Pages:        ctx.PageCount,
		Encrypted:    ctx.Encrypt != nil,
		ModifiedDate: fileInfo.ModTime().Format("2006-01-02 15:04:05"),
	}
	if ctx.HeaderVersion != nil {
		result.Version = ctx.HeaderVersion.String()
	}

	return result, nil
}
