package pdf

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	// lineTolerance is how far apart, in points, two baselines may be and
	// still count as one line of text
	lineTolerance = 3.0

	// wordGapRatio is the horizontal gap, as a fraction of the font size, that
	// separates two words when the PDF does not draw a space glyph
	wordGapRatio = 0.2

	// minWordGap is the word gap used when the font size is unknown
	minWordGap = 1.0
)

// textLine is a run of glyphs sharing a baseline
type textLine struct {
	y      float64
	glyphs []pdf.Text
}

// layoutText rebuilds the reading-order lines of a page from its positioned
// glyphs: top to bottom, then left to right, with spaces restored between
// words. Table rows on a transcript come out as one line each.
func layoutText(texts []pdf.Text) string {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return ""
	}

	// PDF space has its origin bottom-left
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })

	var lines []textLine
	for _, g := range glyphs {
		if n := len(lines); n > 0 && math.Abs(lines[n-1].y-g.Y) <= lineTolerance {
			lines[n-1].glyphs = append(lines[n-1].glyphs, g)
			continue
		}
		lines = append(lines, textLine{y: g.Y, glyphs: []pdf.Text{g}})
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.text())
	}
	return strings.Join(out, "\n")
}

func (l textLine) text() string {
	sort.SliceStable(l.glyphs, func(i, j int) bool { return l.glyphs[i].X < l.glyphs[j].X })

	var b strings.Builder
	for i, g := range l.glyphs {
		if i > 0 {
			prev := l.glyphs[i-1]
			if g.X-(prev.X+glyphWidth(prev)) > wordGap(prev, g) && !endsWithSpace(prev.S) && !startsWithSpace(g.S) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// glyphWidth falls back to half an em per rune for fonts without widths
func glyphWidth(t pdf.Text) float64 {
	if t.W > 0 {
		return t.W
	}
	return t.FontSize * 0.5 * float64(utf8.RuneCountInString(t.S))
}

func wordGap(a, b pdf.Text) float64 {
	size := math.Max(a.FontSize, b.FontSize)
	return math.Max(size*wordGapRatio, minWordGap)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
