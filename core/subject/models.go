package subject

import (
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

type Subject struct {
	ID      int    `json:"subject_id"`
	Name    string `json:"name"`
	Lessons int    `json:"amount"` // lesson count
}

// Form contains the raw inputs of an add or edit row.
type Form struct {
	ID      string `json:"subject_id" validate:"required,positive"`
	Name    string `json:"name" validate:"required"`
	Lessons string `json:"amount" validate:"required,number"`
}

func FormFromValues(v url.Values) Form {
	return Form{
		ID:      v.Get("subject_id"),
		Name:    v.Get("name"),
		Lessons: v.Get("amount"),
	}
}

func FormFromSubject(s Subject) Form {
	return Form{
		ID:      strconv.Itoa(s.ID),
		Name:    s.Name,
		Lessons: strconv.Itoa(s.Lessons),
	}
}

// Validate cleans the form and returns the Subject it describes.
// `number` only accepts digits, so the lesson count can never be negative.
func (f *Form) Validate(validate *validator.Validate) (Subject, error) {
	f.clean()
	if err := validate.Struct(f); err != nil {
		return Subject{}, err
	}

	var flds []core.FieldError
	id, err := strconv.Atoi(f.ID)
	if err != nil {
		flds = append(flds, core.FieldError{Field: "subject_id", Error: "enter a whole number"})
	}
	lessons, err := strconv.Atoi(f.Lessons)
	if err != nil {
		flds = append(flds, core.FieldError{Field: "amount", Error: "enter a whole number"})
	}
	if flds != nil {
		return Subject{}, core.NewValidationError(nil, flds...)
	}
	return Subject{ID: id, Name: f.Name, Lessons: lessons}, nil
}

// ValidateUpdate cleans the form of the existing subject id and returns the updated Subject.
// The id is the backend key of the row and is not checked again.
func (f *Form) ValidateUpdate(validate *validator.Validate, id int) (Subject, error) {
	f.ID = strconv.Itoa(id)
	f.clean()
	if err := validate.StructExcept(f, "ID"); err != nil {
		return Subject{}, err
	}
	lessons, err := strconv.Atoi(f.Lessons)
	if err != nil {
		return Subject{}, core.NewValidationError(nil, core.FieldError{Field: "amount", Error: "enter a whole number"})
	}
	return Subject{ID: id, Name: f.Name, Lessons: lessons}, nil
}

func (f *Form) clean() {
	f.ID = core.CleanString(f.ID)
	f.Name = core.CleanString(f.Name)
	f.Lessons = core.CleanString(f.Lessons)
}
