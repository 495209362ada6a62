package shell

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/transcript-gpa/internal/pdf"
	"github.com/a3tai/transcript-gpa/internal/pdf/pdftest"
	"github.com/a3tai/transcript-gpa/internal/transcript"
)

type fakeLoader struct {
	courses []transcript.CourseRecord
	err     error
	calls   []string
}

func (f *fakeLoader) ExtractCourses(path string) (*pdf.Extraction, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return nil, f.err
	}
	return &pdf.Extraction{Path: path, Pages: 1, Courses: f.courses, GPA: transcript.Calculate(f.courses)}, nil
}

func newTestShell(t *testing.T, loader Loader) (*Shell, *transcript.Table, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	table := transcript.NewTable()
	return New(table, loader, &out, zerolog.Nop()), table, &out
}

func exec(t *testing.T, s *Shell, line string) {
	t.Helper()
	quit, err := s.Exec(line)
	require.NoError(t, err, line)
	require.False(t, quit, line)
}

var transcriptCourses = []transcript.CourseRecord{
	{Code: "CSE101", Name: "Intro", Credit: "4", Grade: "AA"},
	{Code: "MAT101", Name: "Calculus", Credit: "4", Grade: "CB"},
	{Code: "PHY101", Name: "Physics", Credit: "2", Grade: "BB"},
}

func TestShell_Load(t *testing.T) {
	loader := &fakeLoader{courses: transcriptCourses}
	s, table, out := newTestShell(t, loader)

	exec(t, s, "load  fall 2024.pdf ")

	assert.Equal(t, []string{"fall 2024.pdf"}, loader.calls)
	assert.Equal(t, transcriptCourses, table.Records())
	assert.Contains(t, out.String(), "3 courses from fall 2024.pdf")
	assert.True(t, strings.HasSuffix(out.String(), "GPA: 3.20\n"))
}

func TestShell_LoadFailureKeepsTable(t *testing.T) {
	loader := &fakeLoader{courses: transcriptCourses}
	s, table, _ := newTestShell(t, loader)
	exec(t, s, "load a.pdf")

	loader.err = errors.New("failed to open PDF")
	_, err := s.Exec("load broken.pdf")
	require.Error(t, err)

	assert.Equal(t, transcriptCourses, table.Records())
	assert.Equal(t, "GPA: 3.20", table.Display())
}

func TestShell_LoadUsage(t *testing.T) {
	s, _, _ := newTestShell(t, &fakeLoader{})
	_, err := s.Exec("load")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestShell_Add(t *testing.T) {
	s, table, out := newTestShell(t, &fakeLoader{})

	exec(t, s, "add CSE101 | Introduction to Computing | 4 | aa")
	exec(t, s, "add MAT101 Linear Algebra 4 cb")

	assert.Equal(t, []transcript.CourseRecord{
		{Code: "CSE101", Name: "Introduction to Computing", Credit: "4", Grade: "AA"},
		{Code: "MAT101", Name: "Linear Algebra", Credit: "4", Grade: "CB"},
	}, table.Records())
	assert.Equal(t, "GPA: 4.00\nGPA: 3.25\n", out.String())
}

func TestShell_AddSplitCode(t *testing.T) {
	s, table, _ := newTestShell(t, &fakeLoader{})

	exec(t, s, "add ABC 101 Intro to Systems 4 AA")
	exec(t, s, "add CSE101 Data 101 3 BB")

	assert.Equal(t, []transcript.CourseRecord{
		{Code: "ABC 101", Name: "Intro to Systems", Credit: "4", Grade: "AA"},
		{Code: "CSE101", Name: "Data 101", Credit: "3", Grade: "BB"},
	}, table.Records())
}

func TestShell_AddRejectsMissingFields(t *testing.T) {
	s, table, out := newTestShell(t, &fakeLoader{})

	_, err := s.Exec("add CSE101 | | 4 | AA")
	assert.ErrorIs(t, err, transcript.ErrMissingField)

	_, err = s.Exec("add CSE101 4 AA")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = s.Exec("add a | b | c")
	assert.ErrorIs(t, err, ErrUsage)

	assert.Zero(t, table.Len())
	assert.Empty(t, out.String())
}

func TestShell_DeleteAndSelect(t *testing.T) {
	s, table, out := newTestShell(t, &fakeLoader{courses: transcriptCourses})
	exec(t, s, "load t.pdf")
	out.Reset()

	// nothing selected after a load
	exec(t, s, "delete")
	assert.Equal(t, "no row selected\n", out.String())
	assert.Equal(t, 3, table.Len())

	exec(t, s, "select 1")
	exec(t, s, "del")
	assert.Equal(t, []string{"CSE101", "PHY101"}, codes(table))
	assert.Equal(t, 1, table.Selected())

	exec(t, s, "delete 0")
	assert.Equal(t, []string{"PHY101"}, codes(table))

	_, err := s.Exec("delete 5")
	assert.ErrorIs(t, err, transcript.ErrRowOutOfRange)

	_, err = s.Exec("delete x")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = s.Exec("select x")
	assert.ErrorIs(t, err, ErrUsage)

	exec(t, s, "delete 0")
	assert.Equal(t, "GPA: 0.00", table.Display())
}

func TestShell_Edit(t *testing.T) {
	s, table, _ := newTestShell(t, &fakeLoader{courses: transcriptCourses})
	exec(t, s, "load t.pdf")

	exec(t, s, "set 1 grade aa")
	exec(t, s, "set 2 Name Modern Physics")
	exec(t, s, "set 0 credit four")

	recs := table.Records()
	assert.Equal(t, "AA", recs[1].Grade)
	assert.Equal(t, "Modern Physics", recs[2].Name)
	assert.Equal(t, "four", recs[0].Credit)
	assert.Equal(t, "GPA: 3.67", table.Display())

	_, err := s.Exec("set 0 room 101")
	assert.ErrorIs(t, err, transcript.ErrUnknownColumn)

	_, err = s.Exec("set 0 grade")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = s.Exec("set x grade AA")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestShell_EditExtraSpaces(t *testing.T) {
	s, table, _ := newTestShell(t, &fakeLoader{courses: transcriptCourses})
	exec(t, s, "load t.pdf")

	exec(t, s, "set 0  grade   bb")
	exec(t, s, "set  1 name  Linear  Algebra ")

	recs := table.Records()
	assert.Equal(t, "BB", recs[0].Grade)
	assert.Equal(t, "Linear  Algebra", recs[1].Name)

	_, err := s.Exec("set 0  grade   ")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestShell_ShowGPAReset(t *testing.T) {
	s, table, out := newTestShell(t, &fakeLoader{courses: transcriptCourses})
	exec(t, s, "load t.pdf")
	out.Reset()

	exec(t, s, "show")
	assert.Contains(t, out.String(), "t.pdf")
	assert.Contains(t, out.String(), "Calculus")
	out.Reset()

	exec(t, s, "show json")
	assert.Contains(t, out.String(), `"gpa": "3.20"`)
	out.Reset()

	_, err := s.Exec("show xml")
	assert.Error(t, err)

	exec(t, s, "gpa")
	assert.Equal(t, "GPA: 3.20\n", out.String())
	out.Reset()

	exec(t, s, "reset")
	assert.Zero(t, table.Len())
	assert.Equal(t, "GPA: 0.00\n", out.String())
}

func TestShell_Misc(t *testing.T) {
	s, _, out := newTestShell(t, &fakeLoader{})

	quit, err := s.Exec("   ")
	assert.NoError(t, err)
	assert.False(t, quit)

	exec(t, s, "help")
	assert.Contains(t, out.String(), "Commands:")

	_, err = s.Exec("frobnicate")
	assert.ErrorContains(t, err, "unknown command")

	quit, err = s.Exec("QUIT")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestShell_LoadRealTranscript(t *testing.T) {
	dir := t.TempDir()
	pdftest.Write(t, dir, "transcript.pdf", pdftest.Transcript)

	svc, err := pdf.NewService(1024*1024, dir, zerolog.Nop())
	require.NoError(t, err)

	s, table, _ := newTestShell(t, svc)
	exec(t, s, "load transcript.pdf")

	assert.Equal(t, []string{"CSE101", "MAT101", "PHY101"}, codes(table))
	assert.Equal(t, "GPA: 3.20", table.Display())
}

func codes(table *transcript.Table) []string {
	var out []string
	for _, r := range table.Records() {
		out = append(out, r.Code)
	}
	return out
}
