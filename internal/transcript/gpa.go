package transcript

import (
	"fmt"
	"strconv"
)

// DefaultLabel prefixes the displayed GPA when no label is configured
const DefaultLabel = "GPA"

// Result is the outcome of a GPA computation. Value is kept unrounded;
// rounding happens only for display.
type Result struct {
	Value        float64 `json:"value" yaml:"value"`
	TotalCredits float64 `json:"total_credits" yaml:"total_credits"`
	TotalPoints  float64 `json:"total_points" yaml:"total_points"`
	Counted      int     `json:"counted" yaml:"counted"`
	Skipped      int     `json:"skipped" yaml:"skipped"`
}

// Calculate computes the credit-weighted GPA over records.
//
// A row counts when its credit parses as a finite, non-negative number;
// anything else is skipped and kept out of both sums. Grades outside the
// scale, a blank grade included, count with 0 points but their credit still
// weighs in. With no credits at all the GPA is 0.
func Calculate(records []CourseRecord) Result {
	var r Result
	for _, rec := range records {
		credit, ok := rec.CreditValue()
		if !ok {
			r.Skipped++
			continue
		}
		r.TotalCredits += credit
		r.TotalPoints += credit * rec.LetterGrade().Points()
		r.Counted++
	}
	if r.TotalCredits > 0 {
		r.Value = r.TotalPoints / r.TotalCredits
	}
	return r
}

// String formats the GPA with two decimals
func (r Result) String() string {
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// Rounded returns the GPA rounded the same way String prints it
func (r Result) Rounded() float64 {
	v, _ := strconv.ParseFloat(r.String(), 64)
	return v
}

// Display renders the GPA as "<label>: <value>"
func (r Result) Display(label string) string {
	if label == "" {
		label = DefaultLabel
	}
	return fmt.Sprintf("%s: %s", label, r.String())
}
