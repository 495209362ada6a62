package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Transcript Tools
	TranscriptLoadDescription = `Load the course table from a transcript PDF and compute the GPA.

**When to use:** Starting a session with a student's transcript, or switching to another transcript.

**Why it's useful:** Scans every line of the PDF's text for course rows (code, name, credit, grade) and fills the session table in document order. The previous table is replaced.

**Examples:**
• "Load fall-2024.pdf and tell me the GPA"
• "Open transcripts/jane-doe.pdf"

**Common workflows:**
1. Load → Show → Edit mistakes → GPA
2. List → Load the one the user meant

**Best practices:** If a read fails the current table is kept. A transcript with text but no recognizable rows loads as an empty table.`

	TranscriptExtractTextDescription = `Return the raw text layer of a transcript PDF, line by line.

**When to use:** A load produced fewer courses than expected and you need to see what the rows look like.

**Examples:**
• "Why was PHY101 not picked up from transcript.pdf?"

**Best practices:** Rows are only recognized when they read: 3-letter code, optional space, 3 digits, name, integer credit, letter grade.`

	TranscriptAddDescription = `Append a course row to the session table.

**When to use:** A course is missing from the PDF or is planned and the user wants a what-if GPA.

**Examples:**
• "Add MAT201 Linear Algebra, 3 credits, BA"

**Best practices:** code, name, credit and grade are all required; the grade is upper-cased. A credit that is not a number keeps the row visible but out of the GPA.`

	TranscriptDeleteDescription = `Delete a course row from the session table.

**When to use:** Removing a duplicated or withdrawn course.

**Parameters:** index is the 0-based row position. Without an index the selected row is deleted; with no selection nothing happens.`

	TranscriptSelectDescription = `Select a row of the session table.

**When to use:** Before deleting the selected row. Use -1 to clear the selection.`

	TranscriptEditDescription = `Change one cell of the session table.

**When to use:** Fixing a mis-read grade or credit, or trying a what-if grade.

**Examples:**
• "Change row 2 grade to AA"
• "Set the credit of row 0 to 5"

**Best practices:** column is one of code, name, credit, grade. Grades are upper-cased. The GPA is recomputed after every edit.`

	TranscriptResetDescription = `Clear the session table. The GPA goes back to 0.00.`

	TranscriptShowDescription = `Show the session table with row numbers and the current GPA.

**Best practices:** Row numbers shown here are the indexes the delete, select and edit tools take.`

	TranscriptGPADescription = `Return the current GPA of the session table, rounded to two decimals.

**Grade scale:** AA 4.0, BA 3.5, BB 3.0, CB 2.5, CC 2.0, DC 1.5, DD 1.0, FF/DF/DZ/GR 0.0. Credits weigh every grade.`

	// Discovery Tools
	TranscriptListDescription = `Find transcript PDFs in the configured directory.

**When to use:** The user refers to a transcript by a partial name, or you need to know what is available.

**Examples:**
• "Which transcripts do we have for 2023?" → query "2023"

**Best practices:** directory defaults to the configured directory; query matches file names case-insensitively.`

	TranscriptInspectDescription = `Describe a transcript PDF without reading its text: pages, PDF version, encryption, size.

**When to use:** A load fails or returns nothing and you want to know whether the file is encrypted or scanned.`

	TranscriptValidateDescription = `Check that a file is a readable PDF within the size limit.

**When to use:** Before loading a file whose origin is unknown.`

	TranscriptServerInfoDescription = `Describe this server: directory, size limit, available tools and the transcripts found.

**When to use:** At the start of a conversation to discover what is available.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"transcript_load":         TranscriptLoadDescription,
	"transcript_extract_text": TranscriptExtractTextDescription,
	"transcript_add":          TranscriptAddDescription,
	"transcript_delete":       TranscriptDeleteDescription,
	"transcript_select":       TranscriptSelectDescription,
	"transcript_edit":         TranscriptEditDescription,
	"transcript_reset":        TranscriptResetDescription,
	"transcript_show":         TranscriptShowDescription,
	"transcript_gpa":          TranscriptGPADescription,
	"transcript_list":         TranscriptListDescription,
	"transcript_inspect":      TranscriptInspectDescription,
	"transcript_validate":     TranscriptValidateDescription,
	"transcript_server_info":  TranscriptServerInfoDescription,
}

// GetToolDescription returns the description for a given tool name
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a sorted list of all available tool names
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
