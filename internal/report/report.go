// Package report renders a course table and its GPA as text, JSON or YAML,
// and reads course lists back from JSON or YAML files.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/transcript-gpa/internal/transcript"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the document written for JSON and YAML output and read back by
// LoadRecords
type Report struct {
	Source       string                    `json:"source,omitempty" yaml:"source,omitempty"`
	Courses      []transcript.CourseRecord `json:"courses" yaml:"courses"`
	Label        string                    `json:"label" yaml:"label"`
	GPA          string                    `json:"gpa" yaml:"gpa"`
	TotalCredits float64                   `json:"total_credits" yaml:"total_credits"`
	Counted      int                       `json:"counted" yaml:"counted"`
	Skipped      int                       `json:"skipped" yaml:"skipped"`
}

// New builds a report over records, computing their GPA
func New(source string, records []transcript.CourseRecord, label string) Report {
	if label == "" {
		label = transcript.DefaultLabel
	}
	if records == nil {
		records = []transcript.CourseRecord{}
	}
	result := transcript.Calculate(records)
	return Report{
		Source:       source,
		Courses:      records,
		Label:        label,
		GPA:          result.String(),
		TotalCredits: result.TotalCredits,
		Counted:      result.Counted,
		Skipped:      result.Skipped,
	}
}

// Render writes the report in format. Selected marks a row in text output;
// pass -1 for none.
func Render(w io.Writer, format string, r Report, selected int) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return renderTable(w, r, selected)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func renderTable(w io.Writer, r Report, selected int) error {
	if r.Source != "" {
		_, _ = fmt.Fprintln(w, r.Source)
	}

	if len(r.Courses) == 0 {
		_, _ = fmt.Fprintln(w, "(0 courses)")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Code", "Course Name", "Credit", "Grade"})

		for i, c := range r.Courses {
			idx := fmt.Sprintf("%d", i)
			if i == selected {
				idx = "> " + idx
			}
			t.AppendRow(table.Row{idx, c.Code, c.Name, c.Credit, c.Grade})
		}
		t.Render()
	}

	_, _ = fmt.Fprintf(w, "%s: %s\n", r.Label, r.GPA)
	return nil
}

// LoadRecords reads courses from a JSON or YAML file. The file holds either
// a list of courses or a report with a courses key.
func LoadRecords(path string) ([]transcript.CourseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseRecords(data)
}

// ParseRecords decodes courses from JSON or YAML
func ParseRecords(data []byte) ([]transcript.CourseRecord, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse courses: %w", err)
	}
	if len(node.Content) == 0 {
		return []transcript.CourseRecord{}, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var records []transcript.CourseRecord
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to parse courses: %w", err)
		}
		return records, nil
	case yaml.MappingNode:
		var r Report
		if err := root.Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to parse courses: %w", err)
		}
		if r.Courses == nil {
			return []transcript.CourseRecord{}, nil
		}
		return r.Courses, nil
	default:
		return nil, fmt.Errorf("failed to parse courses: expected a list or a mapping")
	}
}
