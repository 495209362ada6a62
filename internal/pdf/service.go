package pdf

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/a3tai/transcript-gpa/internal/pdf/security"
	"github.com/a3tai/transcript-gpa/internal/transcript"
)

// Service handles transcript file operations by orchestrating the PDF components
type Service struct {
	maxFileSize int64
	reader      *Reader
	validator   *Validator
	inspector   *Inspector
	search      *Search
	guard       *security.PathGuard
	log         zerolog.Logger
}

// NewService creates a transcript service. Paths are confined to directory
// unless it is empty.
func NewService(maxFileSize int64, directory string, log zerolog.Logger) (*Service, error) {
	guard, err := security.NewPathGuard(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path guard: %w", err)
	}

	return &Service{
		maxFileSize: maxFileSize,
		reader:      NewReader(maxFileSize),
		validator:   NewValidator(maxFileSize),
		inspector:   NewInspector(maxFileSize),
		search:      NewSearch(maxFileSize),
		guard:       guard,
		log:         log.With().Str("component", "pdf").Logger(),
	}, nil
}

// ReadTranscript extracts the text layer of a transcript
func (s *Service) ReadTranscript(path string) (*ReadResult, error) {
	abs, err := s.guard.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	result, err := s.reader.ReadFile(ReadRequest{Path: abs})
	if err != nil {
		s.log.Warn().Err(err).Str("path", abs).Msg("read transcript")
		return nil, err
	}

	s.log.Debug().
		Str("path", abs).
		Int("pages", result.Pages).
		Int("empty_pages", result.EmptyPages).
		Int("bytes", len(result.Content)).
		Msg("read transcript")
	return result, nil
}

// ExtractCourses reads a transcript and scrapes its course rows. A transcript
// with text but no recognizable rows yields an empty course list.
func (s *Service) ExtractCourses(path string) (*Extraction, error) {
	read, err := s.ReadTranscript(path)
	if err != nil {
		return nil, err
	}

	courses := transcript.Extract(read.Content)
	result := transcript.Calculate(courses)

	s.log.Info().
		Str("path", read.Path).
		Int("courses", len(courses)).
		Str("gpa", result.String()).
		Msg("extracted courses")

	return &Extraction{
		Path:    read.Path,
		Pages:   read.Pages,
		Courses: courses,
		GPA:     result,
	}, nil
}

// ValidateTranscript checks whether path is a readable PDF
func (s *Service) ValidateTranscript(path string) (*ValidateResult, error) {
	abs, err := s.guard.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(ReadRequest{Path: abs})
}

// InspectTranscript describes the structure of a transcript PDF
func (s *Service) InspectTranscript(path string) (*InspectResult, error) {
	abs, err := s.guard.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.inspector.Inspect(ReadRequest{Path: abs})
}

// ListTranscripts finds transcript PDFs under directory, or under the
// configured directory when directory is empty
func (s *Service) ListTranscripts(directory, query string) (*ListResult, error) {
	dir, err := s.guard.ResolveDirectory(directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.search.ListTranscripts(ListRequest{Directory: dir, Query: query})
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(path string) bool {
	abs, err := s.guard.Resolve(path)
	if err != nil {
		return false
	}
	return s.validator.IsValidPDF(abs)
}

// Directory returns the directory paths are confined to, or "" if none
func (s *Service) Directory() string {
	return s.guard.Root()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}
