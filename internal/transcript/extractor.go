package transcript

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// space matches ASCII whitespace plus the Unicode space separators (NBSP and
// friends) that PDF text layers like to emit between table cells.
const space = `[\s\p{Zs}]`

// coursePattern captures code, name, credit and grade, in that order.
// The name is non-greedy, so it ends at the first credit+grade pair.
var coursePattern = regexp.MustCompile(
	`([\p{L}\p{N}_]{3}` + space + `*\d{3})` +
		space + `+(.+?)` +
		space + `+(\d+)` +
		space + `+(` + gradeAlternation() + `)`,
)

func gradeAlternation() string {
	tokens := make([]string, len(scale))
	for i, g := range scale {
		tokens[i] = string(g)
	}
	return strings.Join(tokens, "|")
}

// Extract scans transcript text line by line and returns one record per line
// that contains a course entry, in the order encountered. Lines without an
// entry are skipped. Only the first entry on a line is taken and repeated
// courses are all kept.
func Extract(text string) []CourseRecord {
	text = norm.NFC.String(text)

	var records []CourseRecord
	for _, line := range strings.Split(text, "\n") {
		if rec, ok := ExtractLine(line); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ExtractLine finds the first course entry anywhere in line
func ExtractLine(line string) (CourseRecord, bool) {
	m := coursePattern.FindStringSubmatch(line)
	if m == nil {
		return CourseRecord{}, false
	}
	return CourseRecord{
		Code:   strings.TrimSpace(m[1]),
		Name:   strings.TrimSpace(m[2]),
		Credit: m[3],
		Grade:  m[4],
	}, true
}
