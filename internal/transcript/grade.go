package transcript

import "strings"

// Grade is a letter grade token as printed on a transcript
type Grade string

// Letter grades recognized by the grade scale
const (
	GradeAA Grade = "AA"
	GradeBA Grade = "BA"
	GradeBB Grade = "BB"
	GradeCB Grade = "CB"
	GradeCC Grade = "CC"
	GradeDC Grade = "DC"
	GradeDD Grade = "DD"
	GradeFF Grade = "FF"
	GradeDF Grade = "DF"
	GradeDZ Grade = "DZ"
	GradeGR Grade = "GR"
)

// scale lists the grade scale from highest to lowest. The extraction pattern
// is built from it, so the two can never disagree.
var scale = [...]Grade{
	GradeAA, GradeBA, GradeBB, GradeCB, GradeCC, GradeDC,
	GradeDD, GradeFF, GradeDF, GradeDZ, GradeGR,
}

// Grades returns the recognized letter grades, highest first
func Grades() []Grade {
	out := make([]Grade, len(scale))
	copy(out, scale[:])
	return out
}

// ParseGrade normalizes raw grade text: surrounding whitespace is dropped and
// letters are upper-cased. The result may still be outside the scale.
func ParseGrade(s string) Grade {
	return Grade(strings.ToUpper(strings.TrimSpace(s)))
}

// Points returns the grade-point value of g on the 4.0 scale.
// Tokens outside the scale are worth 0.
func (g Grade) Points() float64 {
	switch g {
	case GradeAA:
		return 4.0
	case GradeBA:
		return 3.5
	case GradeBB:
		return 3.0
	case GradeCB:
		return 2.5
	case GradeCC:
		return 2.0
	case GradeDC:
		return 1.5
	case GradeDD:
		return 1.0
	case GradeFF, GradeDF, GradeDZ, GradeGR:
		return 0
	default:
		return 0
	}
}

// Known reports whether g is one of the recognized letter grades
func (g Grade) Known() bool {
	for _, s := range scale {
		if g == s {
			return true
		}
	}
	return false
}

// GradePoints looks up a raw grade token, normalizing it first
func GradePoints(token string) float64 {
	return ParseGrade(token).Points()
}
