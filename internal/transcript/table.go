package transcript

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Column names an editable field of a row
type Column string

// Table columns, in display order
const (
	ColumnCode   Column = "code"
	ColumnName   Column = "name"
	ColumnCredit Column = "credit"
	ColumnGrade  Column = "grade"
)

// Columns returns the table columns in display order
func Columns() []Column {
	return []Column{ColumnCode, ColumnName, ColumnCredit, ColumnGrade}
}

// ParseColumn resolves a column name, case-insensitively
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ColumnCode, ColumnName, ColumnCredit, ColumnGrade:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

// Row is a course record held by the table. The ID stays with the row across
// edits and deletions of other rows.
type Row struct {
	ID uuid.UUID `json:"id" yaml:"id"`
	CourseRecord `yaml:",inline"`
}

// Update is published to subscribers after every change to the table
type Update struct {
	Result  Result
	Display string
	Rows    int
}

// errNoChange aborts a mutation without publishing an update
var errNoChange = errors.New("no change")

// Table is the editable collection of course rows. Every mutation recomputes
// the GPA and publishes it before returning.
type Table struct {
	mu       sync.Mutex
	rows     []Row
	selected int
	result   Result
	label    string
	validate *validator.Validate
	subs     []func(Update)
	log      zerolog.Logger
}

// Option configures a Table
type Option func(*Table)

// WithLabel sets the prefix of the displayed GPA
func WithLabel(label string) Option {
	return func(t *Table) {
		if label != "" {
			t.label = label
		}
	}
}

// WithLogger sets the logger used for table changes
func WithLogger(l zerolog.Logger) Option {
	return func(t *Table) { t.log = l }
}

// NewTable creates an empty table
func NewTable(opts ...Option) *Table {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})

	t := &Table{
		selected: -1,
		label:    DefaultLabel,
		validate: v,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subscribe registers fn to receive every update. fn runs on the goroutine
// that changed the table, after the table lock is released.
func (t *Table) Subscribe(fn func(Update)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs = append(t.subs, fn)
}

// Load replaces the table contents with records
func (t *Table) Load(records []CourseRecord) error {
	return t.mutate("load", func() error {
		t.rows = t.rows[:0]
		for _, rec := range records {
			t.rows = append(t.rows, newRow(rec))
		}
		t.selected = -1
		return nil
	})
}

// Add appends a record as a new row and returns its ID
func (t *Table) Add(rec CourseRecord) (uuid.UUID, error) {
	row := newRow(rec)
	err := t.mutate("add", func() error {
		t.rows = append(t.rows, row)
		return nil
	})
	return row.ID, err
}

// AddManual appends a hand-entered row. All four fields must be non-empty;
// the grade is upper-cased.
func (t *Table) AddManual(code, name, credit, grade string) (uuid.UUID, error) {
	rec := CourseRecord{Code: code, Name: name, Credit: credit, Grade: strings.ToUpper(grade)}
	if err := t.validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return uuid.Nil, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(fields, ", "))
		}
		return uuid.Nil, fmt.Errorf("validate course: %w", err)
	}
	return t.Add(rec)
}

// Delete removes the row at index
func (t *Table) Delete(index int) error {
	return t.mutate("delete", func() error {
		if index < 0 || index >= len(t.rows) {
			return fmt.Errorf("%w: %d (rows: %d)", ErrRowOutOfRange, index, len(t.rows))
		}
		t.removeLocked(index)
		return nil
	})
}

// DeleteID removes the row with the given ID
func (t *Table) DeleteID(id uuid.UUID) error {
	return t.mutate("delete", func() error {
		idx := t.indexLocked(id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrRowNotFound, id)
		}
		t.removeLocked(idx)
		return nil
	})
}

// DeleteSelected removes the selected row. It reports false, and changes
// nothing, when no row is selected.
func (t *Table) DeleteSelected() (bool, error) {
	err := t.mutate("delete", func() error {
		if t.selected < 0 || t.selected >= len(t.rows) {
			return errNoChange
		}
		t.removeLocked(t.selected)
		return nil
	})
	if errors.Is(err, errNoChange) {
		return false, nil
	}
	return err == nil, err
}

// Select marks the row at index as the current row; -1 clears the selection
func (t *Table) Select(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < -1 || index >= len(t.rows) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrRowOutOfRange, index, len(t.rows))
	}
	t.selected = index
	return nil
}

// Selected returns the index of the current row, or -1
func (t *Table) Selected() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}

// Edit overwrites one cell. Grade text is stored upper-cased.
func (t *Table) Edit(index int, col Column, value string) error {
	return t.mutate("edit", func() error {
		if index < 0 || index >= len(t.rows) {
			return fmt.Errorf("%w: %d (rows: %d)", ErrRowOutOfRange, index, len(t.rows))
		}
		rec := &t.rows[index].CourseRecord
		switch col {
		case ColumnCode:
			rec.Code = value
		case ColumnName:
			rec.Name = value
		case ColumnCredit:
			rec.Credit = value
		case ColumnGrade:
			rec.Grade = strings.ToUpper(value)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		return nil
	})
}

// Reset empties the table
func (t *Table) Reset() error {
	return t.Load(nil)
}

// Rows returns a copy of the table rows
func (t *Table) Rows() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Records returns the course records in table order
func (t *Table) Records() []CourseRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recordsLocked()
}

// Len returns the number of rows
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Result returns the GPA as of the last change
func (t *Table) Result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result
}

// Display returns the labelled GPA string as of the last change
func (t *Table) Display() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result.Display(t.label)
}

// Label returns the GPA display prefix
func (t *Table) Label() string {
	return t.label
}

func (t *Table) mutate(op string, fn func() error) error {
	t.mu.Lock()
	if err := fn(); err != nil {
		t.mu.Unlock()
		return err
	}
	t.result = Calculate(t.recordsLocked())
	upd := Update{Result: t.result, Display: t.result.Display(t.label), Rows: len(t.rows)}
	subs := make([]func(Update), len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	t.log.Debug().
		Str("op", op).
		Int("rows", upd.Rows).
		Int("skipped", upd.Result.Skipped).
		Float64("gpa", upd.Result.Value).
		Msg("table changed")

	for _, fn := range subs {
		fn(upd)
	}
	return nil
}

func (t *Table) removeLocked(index int) {
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	switch {
	case len(t.rows) == 0:
		t.selected = -1
	case index < t.selected:
		t.selected--
	case t.selected >= len(t.rows):
		t.selected = len(t.rows) - 1
	}
}

func (t *Table) indexLocked(id uuid.UUID) int {
	for i, r := range t.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (t *Table) recordsLocked() []CourseRecord {
	out := make([]CourseRecord, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.CourseRecord
	}
	return out
}

func newRow(rec CourseRecord) Row {
	return Row{ID: uuid.New(), CourseRecord: rec}
}
