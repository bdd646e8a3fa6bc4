package gradebook

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/score"
	"github.com/trezcool/gradebook/core/student"
	"github.com/trezcool/gradebook/core/subject"
)

// Unknown is displayed in place of a score reference that resolves to no cached entity.
const Unknown = "Unknown"

// Input types.
const (
	InputStatic = "static" // plain text, not submitted
	InputText   = "text"
	InputNumber = "number"
	InputDate   = "date"
	InputSelect = "select"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Input is one cell of an add or edit row. Form is the id of the html form it submits with.
type Input struct {
	Form    string
	Name    string
	Label   string
	Type    string
	Value   string
	Min     string
	Max     string
	Step    string
	Options []Option
}

// Row is one data row. Cells are the display strings, the first one being the display id.
type Row struct {
	Key     int
	Cells   []string
	Hidden  bool
	Editing bool
	Inputs  []Input
}

// Table is everything needed to render the body of one resource table.
type Table struct {
	Kind      core.Kind
	Columns   []string
	Rows      []Row
	Adding    bool
	AddInputs []Input
	Query     string
	CSRF      string // set by the page server
}

// Span is the number of html columns, actions included.
func (t Table) Span() int { return len(t.Columns) + 1 }

// Visible counts the rows left by the search filter.
func (t Table) Visible() int {
	n := 0
	for _, r := range t.Rows {
		if !r.Hidden {
			n++
		}
	}
	return n
}

var columns = map[core.Kind][]string{
	core.KindStudent: {"ID", "Name", "Class", "Birthdate"},
	core.KindSubject: {"ID", "Name", "Lessons"},
	core.KindScore:   {"ID", "Student", "Subject", "Score", "Date"},
}

// Columns returns the column titles of kind, actions excluded.
func Columns(kind core.Kind) []string {
	cols := columns[kind]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Table builds the table of kind from the cache and the table state, search filter applied.
func (vm *ViewModel) Table(kind core.Kind) (Table, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	ts, ok := vm.tables[kind]
	if !ok {
		return Table{}, errors.Wrapf(core.ErrUnknownKind, "%q", kind)
	}
	t := Table{
		Kind:    kind,
		Columns: Columns(kind),
		Adding:  ts.Adding,
		Query:   ts.Query,
	}

	switch kind {
	case core.KindStudent:
		for _, s := range vm.students {
			row := Row{Key: s.ID, Cells: vm.studentCells(s)}
			if ts.Editing && ts.EditingID == s.ID {
				row.Editing = true
				row.Inputs = vm.studentInputs(editFormID(kind, s.ID), student.FormFromStudent(s), false)
			}
			t.Rows = append(t.Rows, row)
		}
		if ts.Adding {
			t.AddInputs = vm.studentInputs(addFormID(kind), student.Form{}, true)
		}

	case core.KindSubject:
		for _, s := range vm.subjects {
			row := Row{Key: s.ID, Cells: vm.subjectCells(s)}
			if ts.Editing && ts.EditingID == s.ID {
				row.Editing = true
				row.Inputs = vm.subjectInputs(editFormID(kind, s.ID), subject.FormFromSubject(s), false)
			}
			t.Rows = append(t.Rows, row)
		}
		if ts.Adding {
			t.AddInputs = vm.subjectInputs(addFormID(kind), subject.Form{}, true)
		}

	case core.KindScore:
		for _, s := range vm.scores {
			row := Row{Key: s.ID, Cells: vm.scoreCells(s)}
			if ts.Editing && ts.EditingID == s.ID {
				row.Editing = true
				row.Inputs = vm.scoreInputs(editFormID(kind, s.ID), strconv.Itoa(s.ID), score.FormFromScore(s))
			}
			t.Rows = append(t.Rows, row)
		}
		if ts.Adding {
			t.AddInputs = vm.scoreInputs(addFormID(kind), "", score.Form{})
		}
	}

	t.Rows = Filter(t.Rows, ts.Query)
	return t, nil
}

func addFormID(kind core.Kind) string { return "add-" + string(kind) }

func editFormID(kind core.Kind, id int) string { return fmt.Sprintf("edit-%s-%d", kind, id) }

func (vm *ViewModel) studentCells(s student.Student) []string {
	return []string{strconv.Itoa(s.ID), s.Name, s.ClassName, s.Birthdate}
}

func (vm *ViewModel) subjectCells(s subject.Subject) []string {
	return []string{strconv.Itoa(s.ID), s.Name, strconv.Itoa(s.Lessons)}
}

func (vm *ViewModel) scoreCells(s score.Score) []string {
	studentCell, subjectCell := Unknown, Unknown
	if st, ok := vm.findStudent(s.StudentID); ok {
		studentCell = fmt.Sprintf("%s (ID: %d)", st.Name, st.ID)
	}
	if sb, ok := vm.findSubject(s.SubjectID); ok {
		subjectCell = fmt.Sprintf("%s (ID: %d)", sb.Name, sb.ID)
	}
	return []string{strconv.Itoa(s.ID), studentCell, subjectCell, s.Display(), s.Date}
}

// idInput is editable on the add row only; an existing id is the backend key.
func idInput(form, name, value string, editable bool) Input {
	if !editable {
		return Input{Form: form, Name: name, Label: "ID", Type: InputStatic, Value: value}
	}
	return Input{Form: form, Name: name, Label: "ID", Type: InputNumber, Value: value, Min: "1", Step: "1"}
}

func (vm *ViewModel) studentInputs(form string, f student.Form, add bool) []Input {
	return []Input{
		idInput(form, "student_id", f.ID, add),
		{Form: form, Name: "name", Label: "Name", Type: InputText, Value: f.Name},
		{Form: form, Name: "class_", Label: "Class", Type: InputText, Value: f.ClassName},
		{Form: form, Name: "birthdate", Label: "Birthdate", Type: InputDate, Value: f.Birthdate},
	}
}

func (vm *ViewModel) subjectInputs(form string, f subject.Form, add bool) []Input {
	return []Input{
		idInput(form, "subject_id", f.ID, add),
		{Form: form, Name: "name", Label: "Name", Type: InputText, Value: f.Name},
		{Form: form, Name: "amount", Label: "Lessons", Type: InputNumber, Value: f.Lessons, Min: "0", Step: "1"},
	}
}

// scoreInputs offers the cached students and subjects as choices. Score ids are assigned by the backend.
func (vm *ViewModel) scoreInputs(form, id string, f score.Form) []Input {
	students := []Option{{Value: "", Label: "Select a student"}}
	for _, s := range vm.students {
		v := strconv.Itoa(s.ID)
		students = append(students, Option{Value: v, Label: fmt.Sprintf("%s (ID: %d)", s.Name, s.ID), Selected: v == f.StudentID})
	}
	subjects := []Option{{Value: "", Label: "Select a subject"}}
	for _, s := range vm.subjects {
		v := strconv.Itoa(s.ID)
		subjects = append(subjects, Option{Value: v, Label: fmt.Sprintf("%s (ID: %d)", s.Name, s.ID), Selected: v == f.SubjectID})
	}
	return []Input{
		idInput(form, "score_id", id, false),
		{Form: form, Name: "student_id", Label: "Student", Type: InputSelect, Options: students},
		{Form: form, Name: "subject_id", Label: "Subject", Type: InputSelect, Options: subjects},
		{
			Form: form, Name: "score", Label: "Score", Type: InputNumber, Value: f.Value,
			Min: strconv.Itoa(score.Min), Max: strconv.Itoa(score.Max), Step: "0.1",
		},
		{Form: form, Name: "date", Label: "Date", Type: InputDate, Value: f.Date},
	}
}
