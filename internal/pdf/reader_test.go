package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/transcript-gpa/internal/pdf/pdftest"
)

func TestNewReader(t *testing.T) {
	got := NewReader(1024)
	assert.Equal(t, int64(1024), got.maxFileSize)
	assert.Equal(t, 10*1024*1024, got.maxTextSize)
	assert.NotNil(t, got.validator)
}

func TestReader_ReadFile(t *testing.T) {
	tempDir := t.TempDir()

	transcriptPath := pdftest.Write(t, tempDir, "transcript.pdf", pdftest.Transcript)
	twoPagePath := pdftest.Write(t, tempDir, "two-page.pdf",
		[]string{"CSE101 Intro 4 AA"},
		[]string{"MAT101 Calculus 3 BB"},
	)
	blankPath := pdftest.Write(t, tempDir, "blank.pdf", nil)

	txtPath := filepath.Join(tempDir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("not a pdf"), 0o644))

	garbagePath := filepath.Join(tempDir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbagePath, []byte("this is not a PDF at all"), 0o644))

	emptyPath := filepath.Join(tempDir, "empty.pdf")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o644))

	reader := NewReader(1024 * 1024)

	t.Run("transcript lines come out one per line", func(t *testing.T) {
		result, err := reader.ReadFile(ReadRequest{Path: transcriptPath})
		require.NoError(t, err)

		assert.Equal(t, transcriptPath, result.Path)
		assert.Equal(t, 1, result.Pages)
		assert.Equal(t, 0, result.EmptyPages)
		assert.Positive(t, result.Size)
		assert.True(t, strings.HasSuffix(result.Content, "\n"))

		lines := strings.Split(strings.TrimSuffix(result.Content, "\n"), "\n")
		require.Len(t, lines, len(pdftest.Transcript))
		assert.Equal(t, "STATE UNIVERSITY OFFICIAL TRANSCRIPT", lines[0])
		assert.Equal(t, "CSE101 Introduction to Computing 4 AA", lines[3])
		assert.Equal(t, "PHY101 Physics I 2 BB", lines[5])
	})

	t.Run("pages are concatenated in order", func(t *testing.T) {
		result, err := reader.ReadFile(ReadRequest{Path: twoPagePath})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Pages)
		assert.Equal(t, "CSE101 Intro 4 AA\nMAT101 Calculus 3 BB\n", result.Content)
	})

	errorCases := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "empty path", path: "", wantErr: "path cannot be empty"},
		{name: "missing file", path: filepath.Join(tempDir, "missing.pdf"), wantErr: "does not exist"},
		{name: "directory", path: tempDir, wantErr: "directory"},
		{name: "not a pdf extension", path: txtPath, wantErr: "not a PDF"},
		{name: "empty file", path: emptyPath, wantErr: "empty"},
		{name: "corrupt pdf", path: garbagePath, wantErr: "invalid PDF"},
		{name: "no text layer", path: blankPath, wantErr: "no text content"},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := reader.ReadFile(ReadRequest{Path: tc.path})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestReader_ReadFileTooLarge(t *testing.T) {
	path := pdftest.Write(t, t.TempDir(), "transcript.pdf", pdftest.Transcript)

	_, err := NewReader(16).ReadFile(ReadRequest{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestReader_TextLimit(t *testing.T) {
	path := pdftest.Write(t, t.TempDir(), "transcript.pdf", pdftest.Transcript)

	reader := NewReader(1024 * 1024)
	reader.maxTextSize = 20

	_, err := reader.ReadFile(ReadRequest{Path: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}
