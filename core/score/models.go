package score

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

// Bounds of a score value.
const (
	Min = 0
	Max = 10
)

type Score struct {
	ID        int     `json:"score_id,omitempty"` // assigned by the backend
	StudentID int     `json:"student_id"`
	SubjectID int     `json:"subject_id"`
	Value     float64 `json:"score"`
	Date      string  `json:"date"` // YYYY-MM-DD
}

// Display formats the value with one decimal.
func (s Score) Display() string {
	return strconv.FormatFloat(s.Value, 'f', 1, 64)
}

// Form contains the raw inputs of an add or edit row.
type Form struct {
	StudentID string `json:"student_id" validate:"required,positive"`
	SubjectID string `json:"subject_id" validate:"required,positive"`
	Value     string `json:"score" validate:"required,numeric"`
	Date      string `json:"date" validate:"required,isodate"`
}

func FormFromValues(v url.Values) Form {
	return Form{
		StudentID: v.Get("student_id"),
		SubjectID: v.Get("subject_id"),
		Value:     v.Get("score"),
		Date:      v.Get("date"),
	}
}

func FormFromScore(s Score) Form {
	return Form{
		StudentID: strconv.Itoa(s.StudentID),
		SubjectID: strconv.Itoa(s.SubjectID),
		Value:     s.Display(),
		Date:      s.Date,
	}
}

// Validate cleans the form and returns the Score it describes, rounded to one decimal.
func (f *Form) Validate(validate *validator.Validate) (Score, error) {
	f.StudentID = core.CleanString(f.StudentID)
	f.SubjectID = core.CleanString(f.SubjectID)
	f.Value = core.CleanString(f.Value)
	f.Date = core.CleanString(f.Date)

	if err := validate.Struct(f); err != nil {
		return Score{}, err
	}

	var flds []core.FieldError
	studentID, err := strconv.Atoi(f.StudentID)
	if err != nil {
		flds = append(flds, core.FieldError{Field: "student_id", Error: "select a student"})
	}
	subjectID, err := strconv.Atoi(f.SubjectID)
	if err != nil {
		flds = append(flds, core.FieldError{Field: "subject_id", Error: "select a subject"})
	}
	value, err := strconv.ParseFloat(f.Value, 64)
	if err != nil || value < Min || value > Max {
		flds = append(flds, core.FieldError{Field: "score", Error: fmt.Sprintf("score must be between %d and %d", Min, Max)})
	}
	if flds != nil {
		return Score{}, core.NewValidationError(nil, flds...)
	}
	return Score{
		StudentID: studentID,
		SubjectID: subjectID,
		Value:     math.Round(value*10) / 10,
		Date:      f.Date,
	}, nil
}
