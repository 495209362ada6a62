package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/transcript-gpa/internal/pdf/pdftest"
)

func TestValidator_ValidateFile(t *testing.T) {
	tempDir := t.TempDir()

	validPath := pdftest.Write(t, tempDir, "transcript.pdf", pdftest.Transcript)
	upperPath := pdftest.Write(t, tempDir, "TRANSCRIPT.PDF", pdftest.Transcript)

	garbagePath := filepath.Join(tempDir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbagePath, []byte("garbage"), 0o644))

	txtPath := filepath.Join(tempDir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("notes"), 0o644))

	validator := NewValidator(1024 * 1024)

	tests := []struct {
		name      string
		path      string
		wantValid bool
		wantMsg   string
	}{
		{name: "valid transcript", path: validPath, wantValid: true},
		{name: "upper-case extension", path: upperPath, wantValid: true},
		{name: "empty path", path: "", wantMsg: "path cannot be empty"},
		{name: "missing file", path: filepath.Join(tempDir, "missing.pdf"), wantMsg: "does not exist"},
		{name: "directory", path: tempDir, wantMsg: "directory"},
		{name: "wrong extension", path: txtPath, wantMsg: "not a PDF"},
		{name: "corrupt", path: garbagePath, wantMsg: "invalid PDF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.ValidateFile(ReadRequest{Path: tt.path})
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.path, result.Path)
			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantValid, validator.IsValidPDF(tt.path))
			if tt.wantMsg != "" {
				assert.Contains(t, result.Message, tt.wantMsg)
			} else {
				assert.Empty(t, result.Message)
			}
		})
	}
}

func TestValidator_ValidateFileInfo(t *testing.T) {
	tempDir := t.TempDir()
	path := pdftest.Write(t, tempDir, "transcript.pdf", pdftest.Transcript)

	info, err := os.Stat(path)
	require.NoError(t, err)

	assert.NoError(t, NewValidator(info.Size()).ValidateFileInfo(path, info))

	err = NewValidator(info.Size()-1).ValidateFileInfo(path, info)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidator_SentinelErrors(t *testing.T) {
	tempDir := t.TempDir()
	validPath := pdftest.Write(t, tempDir, "transcript.pdf", pdftest.Transcript)

	garbagePath := filepath.Join(tempDir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbagePath, []byte("garbage"), 0o644))

	emptyPath := filepath.Join(tempDir, "empty.pdf")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o644))

	info, err := os.Stat(validPath)
	require.NoError(t, err)

	tests := []struct {
		name    string
		max     int64
		path    string
		wantErr error
	}{
		{name: "empty path", max: 1 << 20, path: "", wantErr: ErrEmptyPath},
		{name: "missing", max: 1 << 20, path: filepath.Join(tempDir, "missing.pdf"), wantErr: ErrNotFound},
		{name: "directory", max: 1 << 20, path: tempDir, wantErr: ErrIsDirectory},
		{name: "empty file", max: 1 << 20, path: emptyPath, wantErr: ErrEmptyFile},
		{name: "too large", max: info.Size() - 1, path: validPath, wantErr: ErrFileTooLarge},
		{name: "garbage", max: 1 << 20, path: garbagePath, wantErr: ErrUnreadable},
		{name: "valid", max: 1 << 20, path: validPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidator(tt.max).check(tt.path)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
