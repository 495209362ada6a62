package pdf

import (
	"fmt"
	"sync"
	"time"

	"github.com/a3tai/transcript-gpa/internal/descriptions"
)

// ToolInfo describes one tool exposed by the server
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult describes the server, its limits and the transcripts it can see
type ServerInfoResult struct {
	ServerName     string     `json:"server_name"`
	Version        string     `json:"version"`
	Directory      string     `json:"directory"`
	MaxFileSize    int64      `json:"max_file_size"`
	AvailableTools []ToolInfo `json:"available_tools"`
	Transcripts    []FileInfo `json:"transcripts"`
	Truncated      bool       `json:"truncated,omitempty"`
	UsageGuidance  string     `json:"usage_guidance"`
}

// directoryCache holds directory listings for a fixed time
type directoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	files   []FileInfo
	updated time.Time
}

func newDirectoryCache(ttl time.Duration) *directoryCache {
	return &directoryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *directoryCache) get(dir string) ([]FileInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[dir]
	if !ok || c.now().Sub(e.updated) > c.ttl {
		return nil, false
	}
	return e.files, true
}

func (c *directoryCache) set(dir string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dir] = cacheEntry{files: files, updated: c.now()}
}

// ServerInfo answers server info requests, caching the directory listing
type ServerInfo struct {
	service    *Service
	cache      *directoryCache
	fileLimit  int
	serverName string
	version    string
	tools      []string
}

// NewServerInfo creates a server info handler for the named tools
func NewServerInfo(service *Service, serverName, version string, tools []string) *ServerInfo {
	return &ServerInfo{
		service:    service,
		cache:      newDirectoryCache(time.Minute),
		fileLimit:  100,
		serverName: serverName,
		version:    version,
		tools:      tools,
	}
}

// Get describes the server. A directory that cannot be listed yields no
// transcripts rather than an error.
func (p *ServerInfo) Get() *ServerInfoResult {
	dir := p.service.Directory()

	files, ok := p.cache.get(dir)
	if !ok {
		files = []FileInfo{}
		if dir != "" {
			if listed, err := p.service.ListTranscripts("", ""); err == nil {
				files = listed.Files
			} else {
				p.service.log.Debug().Err(err).Str("directory", dir).Msg("server info listing")
			}
		}
		p.cache.set(dir, files)
	}

	truncated := false
	if len(files) > p.fileLimit {
		files = files[:p.fileLimit]
		truncated = true
	}

	tools := make([]ToolInfo, 0, len(p.tools))
	for _, name := range p.tools {
		tools = append(tools, ToolInfo{
			Name:        name,
			Description: descriptions.GetToolDescription(name),
			Parameters:  toolParameters[name],
		})
	}

	return &ServerInfoResult{
		ServerName:     p.serverName,
		Version:        p.version,
		Directory:      dir,
		MaxFileSize:    p.service.GetMaxFileSize(),
		AvailableTools: tools,
		Transcripts:    files,
		Truncated:      truncated,
		UsageGuidance:  p.usageGuidance(),
	}
}

var toolParameters = map[string]string{
	"transcript_load":         "path (required): transcript PDF, relative to the configured directory or absolute",
	"transcript_extract_text": "path (required): transcript PDF",
	"transcript_add":          "code, name, credit, grade (all required)",
	"transcript_delete":       "index (optional): 0-based row, defaults to the selected row",
	"transcript_select":       "index (required): 0-based row, -1 clears the selection",
	"transcript_edit":         "index (required), column (required): code|name|credit|grade, value (required)",
	"transcript_reset":        "No parameters required",
	"transcript_show":         "format (optional): text|json|yaml",
	"transcript_gpa":          "No parameters required",
	"transcript_list":         "directory (optional), query (optional): file name filter",
	"transcript_inspect":      "path (required): transcript PDF",
	"transcript_validate":     "path (required): transcript PDF",
	"transcript_server_info":  "No parameters required",
}

func (p *ServerInfo) usageGuidance() string {
	return fmt.Sprintf(`Transcript GPA Server Usage Guide:

1. DISCOVER: 'transcript_list' finds transcript PDFs; 'transcript_validate' checks one.
2. LOAD: 'transcript_load' replaces the session table with the courses found in a PDF.
3. REVIEW: 'transcript_show' lists rows with their indexes and the GPA.
4. CORRECT: 'transcript_edit', 'transcript_add', 'transcript_delete' change rows; the GPA follows.
5. TROUBLESHOOT: 'transcript_extract_text' shows the text the rows were read from;
   'transcript_inspect' reports encryption and page count.

IMPORTANT NOTES:
- Files up to %dMB are accepted
- Scanned transcripts have no text layer and load as empty tables
- Relative paths are taken from the configured directory`, p.service.GetMaxFileSize()/(1024*1024))
}
