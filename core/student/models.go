package student

import (
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

type Student struct {
	ID        int    `json:"student_id"`
	Name      string `json:"name"`
	ClassName string `json:"class_"`
	Birthdate string `json:"birthdate"` // YYYY-MM-DD
}

// Form contains the raw inputs of an add or edit row.
type Form struct {
	ID        string `json:"student_id" validate:"required,positive"`
	Name      string `json:"name" validate:"required"`
	ClassName string `json:"class_" validate:"required"`
	Birthdate string `json:"birthdate" validate:"required,isodate"`
}

func FormFromValues(v url.Values) Form {
	return Form{
		ID:        v.Get("student_id"),
		Name:      v.Get("name"),
		ClassName: v.Get("class_"),
		Birthdate: v.Get("birthdate"),
	}
}

func FormFromStudent(s Student) Form {
	return Form{
		ID:        strconv.Itoa(s.ID),
		Name:      s.Name,
		ClassName: s.ClassName,
		Birthdate: s.Birthdate,
	}
}

// Validate cleans the form and returns the Student it describes.
func (f *Form) Validate(validate *validator.Validate) (Student, error) {
	f.clean()
	if err := validate.Struct(f); err != nil {
		return Student{}, err
	}
	id, err := strconv.Atoi(f.ID)
	if err != nil {
		return Student{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "enter a whole number"})
	}
	return f.student(id), nil
}

// ValidateUpdate cleans the form of the existing student id and returns the updated Student.
// The id is the backend key of the row and is not checked again.
func (f *Form) ValidateUpdate(validate *validator.Validate, id int) (Student, error) {
	f.ID = strconv.Itoa(id)
	f.clean()
	if err := validate.StructExcept(f, "ID"); err != nil {
		return Student{}, err
	}
	return f.student(id), nil
}

func (f *Form) clean() {
	f.ID = core.CleanString(f.ID)
	f.Name = core.CleanString(f.Name)
	f.ClassName = core.CleanString(f.ClassName)
	f.Birthdate = core.CleanString(f.Birthdate)
}

func (f *Form) student(id int) Student {
	return Student{
		ID:        id,
		Name:      f.Name,
		ClassName: f.ClassName,
		Birthdate: f.Birthdate,
	}
}
