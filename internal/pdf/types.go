package pdf

import "github.com/a3tai/transcript-gpa/internal/transcript"

// FileInfo represents information about a transcript PDF on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ReadRequest identifies a transcript PDF to read
type ReadRequest struct {
	Path string `json:"path"`
}

// ListRequest represents a request to list transcript PDFs in a directory
type ListRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// ReadResult is the text layer of a transcript. Content holds every page's
// text, each page followed by a newline.
type ReadResult struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	Pages      int    `json:"pages"`
	EmptyPages int    `json:"empty_pages"`
	Size       int64  `json:"size"`
}

// ValidateResult represents the result of a transcript PDF validation
type ValidateResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// InspectResult describes a transcript PDF without extracting its text
type InspectResult struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	Version      string `json:"version,omitempty"`
	Encrypted    bool   `json:"encrypted"`
	ModifiedDate string `json:"modified_date"`
}

// ListResult represents the transcripts found in a directory
type ListResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
}

// Extraction is the course table scraped from one transcript
type Extraction struct {
	Path    string                    `json:"path" yaml:"path"`
	Pages   int                       `json:"pages" yaml:"pages"`
	Courses []transcript.CourseRecord `json:"courses" yaml:"courses"`
	GPA     transcript.Result         `json:"gpa" yaml:"gpa"`
}
