package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/transcript-gpa/internal/pdf/pdftest"
)

func TestInspector_Inspect(t *testing.T) {
	tempDir := t.TempDir()
	path := pdftest.Write(t, tempDir, "transcript.pdf", pdftest.Transcript, []string{"page two"})

	result, err := NewInspector(1024 * 1024).Inspect(ReadRequest{Path: path})
	require.NoError(t, err)

	assert.Equal(t, path, result.Path)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, "1.4", result.Version)
	assert.False(t, result.Encrypted)
	assert.Positive(t, result.Size)
	assert.NotEmpty(t, result.ModifiedDate)
}

func TestInspector_InspectErrors(t *testing.T) {
	tempDir := t.TempDir()
	garbagePath := filepath.Join(tempDir, "garbage.pdf")
	require.NoError(t, os.WriteFile(garbagePath, []byte("garbage"), 0o644))

	inspector := NewInspector(1024 * 1024)

	for _, path := range []string{"", filepath.Join(tempDir, "missing.pdf"), tempDir, garbagePath} {
		result, err := inspector.Inspect(ReadRequest{Path: path})
		assert.Error(t, err, path)
		assert.Nil(t, result, path)
	}
}
