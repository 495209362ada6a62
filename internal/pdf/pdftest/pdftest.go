// Package pdftest writes small text-only PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	fontSize   = 10
	lineHeight = 14
	topMargin  = 760
	leftMargin = 50

	// every WinAnsi code from space up is half an em wide
	firstChar  = 32
	lastChar   = 255
	glyphWidth = 500
)

// Build returns a PDF with one page per element of pages, each page drawing
// its lines top to bottom in Helvetica. Lines are written verbatim, so
// bytes above 0x7f are read as WinAnsi.
func Build(pages ...[]string) []byte {
	if len(pages) == 0 {
		pages = [][]string{nil}
	}

	// 1 catalog, 2 pages, 3 font, then a page and its content stream per page
	var objects []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	widths := strings.TrimSpace(strings.Repeat(fmt.Sprintf("%d ", glyphWidth), lastChar-firstChar+1))

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
			"/FirstChar %d /LastChar %d /Widths [%s] >>", firstChar, lastChar, widths),
	)

	for i, lines := range pages {
		content := pageContent(lines)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func pageContent(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		y := topMargin - i*lineHeight
		fmt.Fprintf(&b, "BT /F1 %d Tf %d %d Td (%s) Tj ET\n", fontSize, leftMargin, y, escape(line))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// Write builds a PDF into dir/name and returns its path
func Write(tb testing.TB, dir, name string, pages ...[]string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(pages...), 0o644); err != nil {
		tb.Fatalf("Failed to write test PDF: %v", err)
	}
	return path
}

// Transcript is a one-page transcript with a header, three course rows and
// a footer. Its GPA is 3.20 over 10 credits.
var Transcript = []string{
	"STATE UNIVERSITY OFFICIAL TRANSCRIPT",
	"Student: Jane Doe    Number: 2019001",
	"Code     Course Name                 Cr  Grade",
	"CSE101   Introduction to Computing   4   AA",
	"MAT101   Calculus I                  4   CB",
	"PHY101   Physics I                   2   BB",
	"Total Credits: 10",
}
