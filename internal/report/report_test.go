package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/transcript-gpa/internal/transcript"
)

var courses = []transcript.CourseRecord{
	{Code: "CSE101", Name: "Introduction to Computing", Credit: "4", Grade: "AA"},
	{Code: "MAT101", Name: "Calculus I", Credit: "4", Grade: "CB"},
	{Code: "PHY101", Name: "Physics I", Credit: "four", Grade: "BB"},
}

func TestNew(t *testing.T) {
	r := New("fall.pdf", courses, "")

	assert.Equal(t, "fall.pdf", r.Source)
	assert.Equal(t, transcript.DefaultLabel, r.Label)
	assert.Equal(t, "3.25", r.GPA)
	assert.InDelta(t, 8.0, r.TotalCredits, 1e-9)
	assert.Equal(t, 2, r.Counted)
	assert.Equal(t, 1, r.Skipped)

	empty := New("", nil, "Term GPA")
	assert.Equal(t, "Term GPA", empty.Label)
	assert.Equal(t, "0.00", empty.GPA)
	assert.NotNil(t, empty.Courses)
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatText, New("fall.pdf", courses, "GPA"), 1))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "fall.pdf\n"))
	assert.Contains(t, out, "COURSE NAME")
	assert.Contains(t, out, "Introduction to Computing")
	assert.Contains(t, out, "> 1")
	assert.NotContains(t, out, "> 0")
	assert.True(t, strings.HasSuffix(out, "GPA: 3.25\n"))
}

func TestRender_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "", New("", nil, ""), -1))
	assert.Equal(t, "(0 courses)\nGPA: 0.00\n", buf.String())
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "JSON", New("fall.pdf", courses, "GPA"), -1))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, courses, got.Courses)
	assert.Equal(t, "3.25", got.GPA)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatYAML, New("fall.pdf", courses, "GPA"), -1))

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, courses, got.Courses)
	assert.Equal(t, "fall.pdf", got.Source)
}

func TestRender_UnsupportedFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "xml", New("", nil, ""), -1)
	assert.ErrorContains(t, err, "unsupported format")
}

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []transcript.CourseRecord
		wantErr bool
	}{
		{
			name: "yaml list with numeric credit",
			input: `
- code: CSE101
  name: Intro
  credit: 4
  grade: AA
`,
			want: []transcript.CourseRecord{{Code: "CSE101", Name: "Intro", Credit: "4", Grade: "AA"}},
		},
		{
			name:  "json list",
			input: `[{"code":"MAT101","name":"Calculus","credit":"3","grade":"bb"}]`,
			want:  []transcript.CourseRecord{{Code: "MAT101", Name: "Calculus", Credit: "3", Grade: "bb"}},
		},
		{
			name:  "report document",
			input: `{"source":"x.pdf","courses":[{"code":"A","name":"B","credit":"1","grade":"CC"}],"gpa":"2.00"}`,
			want:  []transcript.CourseRecord{{Code: "A", Name: "B", Credit: "1", Grade: "CC"}},
		},
		{
			name:  "report without courses",
			input: "label: GPA\n",
			want:  []transcript.CourseRecord{},
		},
		{
			name:  "empty document",
			input: "",
			want:  []transcript.CourseRecord{},
		},
		{
			name:    "scalar document",
			input:   "just text",
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   "[{",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecords([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.yaml")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatYAML, New("fall.pdf", courses, "GPA"), -1))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := LoadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, courses, got)

	_, err = LoadRecords(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
