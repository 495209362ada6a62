// Package shell is the interactive course table editor: load a transcript,
// fix rows by hand and watch the GPA follow every change.
package shell

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/a3tai/transcript-gpa/internal/pdf"
	"github.com/a3tai/transcript-gpa/internal/report"
	"github.com/a3tai/transcript-gpa/internal/transcript"
)

const prompt = "gpa> "

// splitCode matches a course code written with a space, e.g. "ABC 101"
var splitCode = regexp.MustCompile(`^\w{3} \d{3}$`)

// ErrUsage is returned for commands with missing or malformed arguments
var ErrUsage = errors.New("usage")

// Loader extracts the course rows of a transcript
type Loader interface {
	ExtractCourses(path string) (*pdf.Extraction, error)
}

// Shell executes editor commands against a table
type Shell struct {
	table  *transcript.Table
	loader Loader
	out    io.Writer
	format string
	source string
	log    zerolog.Logger
}

// New creates a shell writing to out. The labelled GPA is printed after
// every change to table.
func New(table *transcript.Table, loader Loader, out io.Writer, log zerolog.Logger) *Shell {
	s := &Shell{
		table:  table,
		loader: loader,
		out:    out,
		format: report.FormatText,
		log:    log,
	}
	table.Subscribe(func(u transcript.Update) {
		_, _ = fmt.Fprintln(s.out, u.Display)
	})
	return s
}

// SetFormat sets the default format of show
func (s *Shell) SetFormat(format string) {
	s.format = format
}

// Run reads commands until quit or end of input
func (s *Shell) Run(historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(s.out, "Transcript GPA editor. Type help for commands, quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := s.Exec(line)
		if err != nil {
			_, _ = fmt.Fprintf(rl.Stderr(), "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line. It reports true when the shell should exit.
func (s *Shell) Exec(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case "quit", "exit":
		return true, nil
	case "help":
		printHelp(s.out)
		return false, nil
	case "load", "open":
		return false, s.load(rest)
	case "add":
		return false, s.add(rest)
	case "del", "delete", "rm":
		return false, s.delete(rest)
	case "select", "sel":
		return false, s.selectRow(rest)
	case "set", "edit":
		return false, s.edit(rest)
	case "show", "ls":
		return false, s.show(rest)
	case "gpa":
		_, _ = fmt.Fprintln(s.out, s.table.Display())
		return false, nil
	case "reset", "clear":
		s.source = ""
		return false, s.table.Reset()
	default:
		return false, fmt.Errorf("unknown command: %s (type help for commands)", command)
	}
}

func (s *Shell) load(path string) error {
	if path == "" {
		return fmt.Errorf("%w: load <transcript.pdf>", ErrUsage)
	}

	ext, err := s.loader.ExtractCourses(path)
	if err != nil {
		// the table keeps its rows when a transcript cannot be read
		s.log.Error().Err(err).Str("path", path).Msg("load transcript")
		return err
	}

	s.source = ext.Path
	_, _ = fmt.Fprintf(s.out, "%d courses from %s\n", len(ext.Courses), ext.Path)
	return s.table.Load(ext.Courses)
}

// add accepts "code | name | credit | grade", or whitespace-separated fields
// where everything between the code and the credit is the name. In the
// whitespace form a code split like "ABC 101" is kept whole.
func (s *Shell) add(args string) error {
	var fields []string
	if strings.Contains(args, "|") {
		for _, f := range strings.Split(args, "|") {
			fields = append(fields, strings.TrimSpace(f))
		}
	} else {
		words := strings.Fields(args)
		code := 1
		if len(words) >= 5 && splitCode.MatchString(words[0]+" "+words[1]) {
			code = 2
		}
		if len(words) >= code+3 {
			fields = []string{
				strings.Join(words[:code], " "),
				strings.Join(words[code:len(words)-2], " "),
				words[len(words)-2],
				words[len(words)-1],
			}
		}
	}
	if len(fields) != 4 {
		return fmt.Errorf("%w: add <code> | <name> | <credit> | <grade> (or add <code> <name> <credit> <grade>)", ErrUsage)
	}

	_, err := s.table.AddManual(fields[0], fields[1], fields[2], fields[3])
	return err
}

func (s *Shell) delete(args string) error {
	if args == "" {
		deleted, err := s.table.DeleteSelected()
		if err != nil {
			return err
		}
		if !deleted {
			_, _ = fmt.Fprintln(s.out, "no row selected")
		}
		return nil
	}

	idx, err := strconv.Atoi(args)
	if err != nil {
		return fmt.Errorf("%w: delete [row]", ErrUsage)
	}
	return s.table.Delete(idx)
}

func (s *Shell) selectRow(args string) error {
	idx, err := strconv.Atoi(args)
	if err != nil {
		return fmt.Errorf("%w: select <row> (-1 clears)", ErrUsage)
	}
	return s.table.Select(idx)
}

func (s *Shell) edit(args string) error {
	row, rest := cutWord(args)
	column, value := cutWord(rest)
	if value == "" {
		return fmt.Errorf("%w: set <row> <code|name|credit|grade> <value>", ErrUsage)
	}

	idx, err := strconv.Atoi(row)
	if err != nil {
		return fmt.Errorf("%w: set <row> <code|name|credit|grade> <value>", ErrUsage)
	}
	col, err := transcript.ParseColumn(column)
	if err != nil {
		return err
	}
	return s.table.Edit(idx, col, value)
}

// cutWord splits off the first whitespace-delimited word of s. The rest is
// trimmed at both ends; inner spacing is kept.
func cutWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func (s *Shell) show(format string) error {
	if format == "" {
		format = s.format
	}
	r := report.New(s.source, s.table.Records(), s.table.Label())
	return report.Render(s.out, format, r, s.table.Selected())
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("load"),
		readline.PcItem("add"),
		readline.PcItem("delete"),
		readline.PcItem("select"),
		readline.PcItem("set"),
		readline.PcItem("show",
			readline.PcItem(report.FormatText),
			readline.PcItem(report.FormatJSON),
			readline.PcItem(report.FormatYAML),
		),
		readline.PcItem("gpa"),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func printHelp(w io.Writer) {
	help := `
Commands:
  load <file.pdf>                     Replace the table with the courses in a transcript
  add <code> | <name> | <credit> | <grade>
                                      Append a course; every field is required
  delete [row]                        Delete a row, or the selected row
  select <row>                        Select a row (-1 clears the selection)
  set <row> <column> <value>          Change a cell (code, name, credit, grade)
  show [text|json|yaml]               Print the table and GPA
  gpa                                 Print the GPA
  reset                               Empty the table
  help                                Show this help message
  quit                                Exit

Rows are numbered from 0 as shown by show. The GPA is printed after every change.
`
	_, _ = fmt.Fprintln(w, help)
}
