// Package transcript holds the course records scraped from a transcript, the
// grade scale and the credit-weighted GPA computed over them.
package transcript

import (
	"math"
	"strconv"
	"strings"
)

// CourseRecord is one course attempt as it appears in the table.
// Credit is kept as text and only parsed when the GPA is computed.
type CourseRecord struct {
	Code   string `json:"code" yaml:"code" validate:"required"`
	Name   string `json:"name" yaml:"name" validate:"required"`
	Credit string `json:"credit" yaml:"credit" validate:"required"`
	Grade  string `json:"grade" yaml:"grade" validate:"required"`
}

// CreditValue parses the credit text. It reports false for text that is not a
// finite, non-negative decimal number. Digit-separating underscores are
// accepted; hexadecimal floats are not.
func (c CourseRecord) CreditValue() (float64, bool) {
	s := strings.TrimSpace(c.Credit)
	if s == "" || strings.ContainsAny(s, "xX") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// LetterGrade returns the normalized grade token of the record
func (c CourseRecord) LetterGrade() Grade {
	return ParseGrade(c.Grade)
}
